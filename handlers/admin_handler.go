package handlers

import (
	"context"
	"strconv"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type adminService interface {
	ListUsers(ctx context.Context, actor services.Actor, role models.Role, page, pageSize int) ([]models.User, error)
	SetUserActive(ctx context.Context, actor services.Actor, userID uint, active bool) error
}

type themeService interface {
	Load(ctx context.Context) (*models.SiteTheme, error)
	Replace(ctx context.Context, actor services.Actor, theme models.SiteTheme) (*models.SiteTheme, error)
}

type AdminHandler struct {
	admin  adminService
	themes themeService
}

func NewAdminHandler(admin *services.AdminService, themes *services.ThemeService) *AdminHandler {
	return &AdminHandler{admin: admin, themes: themes}
}

type userStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type themeRequest struct {
	SiteName       string                 `json:"site_name" validate:"required,max=100"`
	PrimaryColor   string                 `json:"primary_color" validate:"required"`
	SecondaryColor string                 `json:"secondary_color" validate:"required"`
	FontFamily     string                 `json:"font_family" validate:"max=100"`
	LogoURL        *string                `json:"logo_url,omitempty" validate:"omitempty,url"`
	Palette        map[string]interface{} `json:"palette"`
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	users, err := h.admin.ListUsers(c.UserContext(), middleware.CurrentActor(c), models.Role(c.Query("role")), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	return c.JSON(fiber.Map{
		"data": out,
		"meta": fiber.Map{"current_page": page},
	})
}

func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req userStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.admin.SetUserActive(c.UserContext(), middleware.CurrentActor(c), id, *req.IsActive); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}

func (h *AdminHandler) GetTheme(c *fiber.Ctx) error {
	theme, err := h.themes.Load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(themeView(theme))
}

func (h *AdminHandler) ReplaceTheme(c *fiber.Ctx) error {
	var req themeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	palette := datatypes.JSONMap{}
	for k, v := range req.Palette {
		palette[k] = v
	}

	theme, err := h.themes.Replace(c.UserContext(), middleware.CurrentActor(c), models.SiteTheme{
		SiteName:       req.SiteName,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		FontFamily:     req.FontFamily,
		LogoURL:        req.LogoURL,
		Palette:        palette,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(themeView(theme))
}
