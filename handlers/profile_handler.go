package handlers

import (
	"context"
	"strconv"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
)

type profileService interface {
	Get(ctx context.Context, actor services.Actor) (*models.User, error)
	Update(ctx context.Context, actor services.Actor, update services.ProfileUpdate) (*models.User, error)
	ListCoaches(ctx context.Context, page, pageSize int) ([]models.User, error)
}

type ProfileHandler struct {
	service profileService
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

type CoachResponse struct {
	ID                uint    `json:"id"`
	FullName          string  `json:"full_name"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(userView(user))
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.UserContext(), middleware.CurrentActor(c), services.ProfileUpdate{
		FullName:          req.FullName,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(userView(user))
}

func (h *ProfileHandler) ListCoaches(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	coaches, err := h.service.ListCoaches(c.UserContext(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]CoachResponse, 0, len(coaches))
	for _, coach := range coaches {
		out = append(out, CoachResponse{ID: coach.ID, FullName: coach.FullName, ProfilePictureURL: coach.ProfilePictureURL})
	}
	return c.JSON(out)
}
