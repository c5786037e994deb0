package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := s.services.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(AuthResponse{UserID: res.UserID, Token: res.Token})
}

func (s *Server) register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := s.services.Auth.Register(c.UserContext(), req.SecretKey, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "user registered", "user_id", res.UserID)
	return c.JSON(AuthResponse{UserID: res.UserID, Token: res.Token})
}
