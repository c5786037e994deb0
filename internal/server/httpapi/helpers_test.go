package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// do sends a request through the fiber app. body may be nil, a string
// (sent raw) or any value (JSON-encoded).
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// register creates a user and returns its token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/auth/register", RegisterRequest{
		SecretKey: testRegistrationSecret,
		Name:      "Alice",
		Email:     email,
		Password:  "pw",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var ar AuthResponse
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NotEmpty(t, ar.Token)
	return ar.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
