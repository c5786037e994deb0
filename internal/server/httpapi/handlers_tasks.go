package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listTasks(c *fiber.Ctx) error {
	list, err := s.services.Tasks.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapSlice(list, toTaskDTO))
}

func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	task, err := s.services.Tasks.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(toTaskDTO(task))
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req TaskDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	task, err := s.services.Tasks.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(toTaskDTO(task))
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req TaskDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	task, err := s.services.Tasks.Update(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(toTaskDTO(task))
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.services.Tasks.Delete(c.UserContext(), id); err != nil {
		return err
	}

	if u, ok := currentUser(c); ok {
		s.logger.Info(c.UserContext(), "task deleted", "id", id, "user_id", u.ID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
