package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listAttachments(c *fiber.Ctx) error {
	taskID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	list, err := s.services.Attachments.List(c.UserContext(), taskID)
	if err != nil {
		return err
	}
	return c.JSON(mapSlice(list, toAttachmentDTO))
}

func (s *Server) createAttachment(c *fiber.Ctx) error {
	taskID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req CreateAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	up, err := s.services.Attachments.Create(c.UserContext(), taskID, req.NomeArquivo)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(CreateAttachmentResponse{
		ID:        up.Attachment.ID,
		UploadURL: up.URL,
	})
}

func (s *Server) completeAttachment(c *fiber.Ctx) error {
	taskID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	id, err := idParam(c, "attachmentId")
	if err != nil {
		return err
	}

	if err := s.services.Attachments.Complete(c.UserContext(), taskID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getAttachment(c *fiber.Ctx) error {
	taskID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	id, err := idParam(c, "attachmentId")
	if err != nil {
		return err
	}

	a, url, err := s.services.Attachments.DownloadURL(c.UserContext(), taskID, id)
	if err != nil {
		return err
	}
	return c.JSON(DownloadResponse{AttachmentDTO: toAttachmentDTO(a), DownloadURL: url})
}
