package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// idParam parses a positive int64 route parameter.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (s *Server) listClients(c *fiber.Ctx) error {
	list, err := s.services.Clients.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapSlice(list, toClientDTO))
}

func (s *Server) getClient(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	client, err := s.services.Clients.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(toClientDTO(client))
}

func (s *Server) createClient(c *fiber.Ctx) error {
	var req ClientDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	client, err := s.services.Clients.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(toClientDTO(client))
}

func (s *Server) updateClient(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req ClientDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	client, err := s.services.Clients.Update(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(toClientDTO(client))
}

func (s *Server) deleteClient(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.services.Clients.Delete(c.UserContext(), id); err != nil {
		return err
	}

	if u, ok := currentUser(c); ok {
		s.logger.Info(c.UserContext(), "client deleted", "id", id, "user_id", u.ID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
