package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	t.Setenv("CSE_DATABASE_DSN", "postgres://env")
	t.Setenv("CSE_TOKEN_TTL", "45m")
	t.Setenv("CSE_BCRYPT_COST", "12")
	t.Setenv("CSE_S3_BUCKET", "env-bucket")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c, nil))

	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, 45*time.Minute, c.TokenTTL)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, "env-bucket", c.S3Bucket)
	assert.Equal(t, ":8080", c.HTTPAddr)
}

func TestParseEnv_BadValues(t *testing.T) {
	t.Run("ttl", func(t *testing.T) {
		t.Setenv("CSE_TOKEN_TTL", "forever")
		var c Config
		assert.Error(t, parseEnv(&c, nil))
	})
	t.Run("cost", func(t *testing.T) {
		t.Setenv("CSE_BCRYPT_COST", "ten")
		var c Config
		assert.Error(t, parseEnv(&c, nil))
	})
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CSE_CORS_ORIGINS=https://app.example\nCSE_LOG_FORMAT=text\n"), 0o600))

	// godotenv writes into the process environment directly.
	t.Cleanup(func() {
		_ = os.Unsetenv("CSE_CORS_ORIGINS")
		_ = os.Unsetenv("CSE_LOG_FORMAT")
	})

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c, []string{"-env", path}))

	assert.Equal(t, "https://app.example", c.CORSOrigins)
	assert.Equal(t, "text", c.LogFormat)
}

func TestParseEnv_EnvironmentBeatsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CSE_JWT_ISSUER=from-file\n"), 0o600))
	t.Setenv("CSE_JWT_ISSUER", "from-env")

	var c Config
	require.NoError(t, parseEnv(&c, []string{"-env", path}))
	assert.Equal(t, "from-env", c.JWTIssuer)
}

func TestParseEnv_MissingExplicitFile(t *testing.T) {
	var c Config
	err := parseEnv(&c, []string{"-env", filepath.Join(t.TempDir(), "nope.env")})
	assert.Error(t, err)
}
