package handlers

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/anjiri1684/pickleball_coach/storage"
	"github.com/gofiber/fiber/v2"
)

type uploadService interface {
	Upload(ctx context.Context, actor services.Actor, category storage.Category, file storage.Upload) (string, error)
}

type uploadSigner interface {
	SignUpload(category storage.Category, ownerID uint) (*storage.SignedUpload, error)
}

type UploadHandler struct {
	service uploadService
	signer  uploadSigner
}

// NewUploadHandler accepts a nil signer when direct browser uploads are not available.
func NewUploadHandler(service *services.UploadService, signer uploadSigner) *UploadHandler {
	return &UploadHandler{service: service, signer: signer}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	category, err := storage.ParseCategory(c.FormValue("category"))
	if err != nil {
		return writeError(c, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.service.Upload(c.UserContext(), middleware.CurrentActor(c), category, storage.Upload{
		Reader:   file,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url, "category": category})
}

// Signature creates a secure signature for a frontend upload.
func (h *UploadHandler) Signature(c *fiber.Ctx) error {
	if h.signer == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "Direct uploads are not configured")
	}
	category, err := storage.ParseCategory(c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	actor := middleware.CurrentActor(c)
	if err := services.CanUpload(actor, category); err != nil {
		return writeError(c, err)
	}
	signed, err := h.signer.SignUpload(category, actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(signed)
}
