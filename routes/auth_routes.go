package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	auth := app.Group("/api/v1/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
}
