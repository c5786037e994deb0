package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// publicRoutes bypass the auth filter. Keys are "METHOD path".
var publicRoutes = map[string]struct{}{
	fiber.MethodPost + " /auth/login":    {},
	fiber.MethodPost + " /auth/register": {},
	fiber.MethodGet + " /health":         {},
}

// useMiddleware installs the chain: request id, access log, recover, CORS,
// then the auth filter.
func (s *Server) useMiddleware(cfg Config) {
	s.app.Use(requestid.New())
	s.app.Use(s.accessLog)
	s.app.Use(recover.New())

	corsCfg := cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}
	if cfg.CORSOrigins != "" {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	s.app.Use(cors.New(corsCfg))

	s.app.Use(s.authFilter)
}

// accessLog logs one line per request. Errors from the rest of the chain are
// rendered here so the logged status is the one the client sees.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := s.app.ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
	)
	return nil
}

// authFilter attaches exactly one principal to the request or rejects it
// with 401 before any handler runs.
func (s *Server) authFilter(c *fiber.Ctx) error {
	if isPublic(c.Method(), c.Path()) || c.Method() == fiber.MethodOptions {
		return c.Next()
	}

	token, ok := bearerToken(c.Get(common.AuthorizationHeader))
	if !ok {
		s.logger.Debug(c.UserContext(), "rejected request", "path", c.Path(), "reason", "missing bearer token")
		return writeError(c, common.ErrUnauthorized)
	}

	user, err := s.services.Auth.Authenticate(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			return err
		}
		s.logger.Debug(c.UserContext(), "rejected request", "path", c.Path(), "reason", err.Error())
		return writeError(c, common.ErrUnauthorized)
	}

	c.Locals(principalKey, user)
	c.SetUserContext(WithUser(c.UserContext(), user))

	return c.Next()
}

func isPublic(method, path string) bool {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	_, ok := publicRoutes[method+" "+path]
	return ok
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
