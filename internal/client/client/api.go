package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/client/models"
	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/gofiber/fiber/v2"
)

// APIClient is safe for concurrent use.
type APIClient struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// SetToken sets the bearer token sent on protected calls ("" to clear).
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*models.Auth, error) {
	var out models.Auth
	err := c.do(ctx, fiber.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Register(ctx context.Context, secret, name, email, password string) (*models.Auth, error) {
	var out models.Auth
	err := c.do(ctx, fiber.MethodPost, "/auth/register", map[string]string{
		"secretKey": secret,
		"name":      name,
		"email":     email,
		"password":  password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping calls the public health endpoint.
func (c *APIClient) Ping(ctx context.Context) error {
	return c.do(ctx, fiber.MethodGet, "/health", nil, nil)
}

func (c *APIClient) ListClients(ctx context.Context) ([]models.Client, error) {
	out := make([]models.Client, 0)
	if err := c.do(ctx, fiber.MethodGet, "/api/clientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) CreateClient(ctx context.Context, in models.Client) (*models.Client, error) {
	var out models.Client
	if err := c.do(ctx, fiber.MethodPost, "/api/clientes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	out := make([]models.Task, 0)
	if err := c.do(ctx, fiber.MethodGet, "/api/tarefas", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) CreateTask(ctx context.Context, in models.Task) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, fiber.MethodPost, "/api/tarefas", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CreateAttachment(ctx context.Context, taskID int64, fileName string) (*models.AttachmentUpload, error) {
	var out models.AttachmentUpload
	path := fmt.Sprintf("/api/tarefas/%d/anexos", taskID)
	if err := c.do(ctx, fiber.MethodPost, path, map[string]string{"nomeArquivo": fileName}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CompleteAttachment(ctx context.Context, taskID, id int64) error {
	return c.do(ctx, fiber.MethodPost, fmt.Sprintf("/api/tarefas/%d/anexos/%d/concluir", taskID, id), nil, nil)
}

func (c *APIClient) ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	out := make([]models.Attachment, 0)
	if err := c.do(ctx, fiber.MethodGet, fmt.Sprintf("/api/tarefas/%d/anexos", taskID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// requestTimeout is the smaller of the client timeout and the time left on ctx.
func (c *APIClient) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			fiber.ReleaseAgent(a)
			return fmt.Errorf("encode request: %w", err)
		}
		a.Body(body).ContentType(fiber.MIMEApplicationJSON)
	}
	if token := c.Token(); token != "" {
		a.Set(fiber.HeaderAuthorization, common.BearerScheme+" "+token)
	}
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		a.Timeout(timeout)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrUnavailable, errs[0])
	}

	if code >= 200 && code < 300 {
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return statusError(code, body)
}

// statusError maps a non-2xx response to a sentinel.
func statusError(code int, body []byte) error {
	var fields map[string]string
	_ = json.Unmarshal(body, &fields)
	msg := fields["error"]

	switch code {
	case fiber.StatusBadRequest:
		if msg == "" && len(fields) > 0 {
			return &common.ValidationError{Fields: fields}
		}
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	case fiber.StatusUnauthorized:
		return ErrUnauthorized
	case fiber.StatusForbidden:
		return common.ErrForbidden
	case fiber.StatusNotFound:
		return common.ErrNotFound
	default:
		if msg == "" {
			msg = fmt.Sprintf("status %d", code)
		}
		return fmt.Errorf("%w: %s", ErrServer, msg)
	}
}
