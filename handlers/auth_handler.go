package handlers

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
)

type authService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthHandler struct {
	service authService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student coach"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.UserContext(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(userView(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, user, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": userView(user)})
}
