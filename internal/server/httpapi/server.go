// Package httpapi exposes the REST API over fiber: the auth endpoints, the
// client, task and attachment resources, and the request filter guarding them.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/logging"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

const shutdownTimeout = 5 * time.Second

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Register(ctx context.Context, secret, name, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type ClientService interface {
	List(ctx context.Context) ([]*models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, in services.ClientInput) (*models.Client, error)
	Update(ctx context.Context, id int64, in services.ClientInput) (*models.Client, error)
	Delete(ctx context.Context, id int64) error
}

type TaskService interface {
	List(ctx context.Context) ([]*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, in services.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id int64, in services.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type AttachmentService interface {
	Create(ctx context.Context, taskID int64, fileName string) (*models.AttachmentUpload, error)
	Complete(ctx context.Context, taskID, id int64) error
	List(ctx context.Context, taskID int64) ([]*models.Attachment, error)
	DownloadURL(ctx context.Context, taskID, id int64) (*models.Attachment, string, error)
}

// Services groups the business services behind the API.
type Services struct {
	Auth        AuthService
	Clients     ClientService
	Tasks       TaskService
	Attachments AttachmentService
}

// Config holds transport settings.
type Config struct {
	Address     string
	CORSOrigins string
}

type Server struct {
	address  string
	app      *fiber.App
	services Services
	logger   logging.Logger
}

// NewServer builds the fiber app with middleware and routes registered.
func NewServer(cfg Config, svc Services, l logging.Logger) *Server {
	s := &Server{
		address:  cfg.Address,
		services: svc,
		logger:   l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "csemanager",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.useMiddleware(cfg)
	s.registerRoutes()

	return s
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.health)

	authGroup := s.app.Group("/auth")
	authGroup.Post("/login", s.login)
	authGroup.Post("/register", s.register)

	api := s.app.Group("/api")

	clientes := api.Group("/clientes")
	clientes.Get("/", s.listClients)
	clientes.Get("/:id", s.getClient)
	clientes.Post("/", s.createClient)
	clientes.Put("/:id", s.updateClient)
	clientes.Delete("/:id", s.deleteClient)

	tarefas := api.Group("/tarefas")
	tarefas.Get("/", s.listTasks)
	tarefas.Get("/:id", s.getTask)
	tarefas.Post("/", s.createTask)
	tarefas.Put("/:id", s.updateTask)
	tarefas.Delete("/:id", s.deleteTask)

	anexos := tarefas.Group("/:id/anexos")
	anexos.Get("/", s.listAttachments)
	anexos.Post("/", s.createAttachment)
	anexos.Get("/:attachmentId", s.getAttachment)
	anexos.Post("/:attachmentId/concluir", s.completeAttachment)
}

// errorHandler is fiber's last stop for errors returned by handlers.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status, _ := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err.Error())
	}
	return writeError(c, err)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}
