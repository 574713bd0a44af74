package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, h *handlers.AdminHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")
	api.Get("/theme", h.GetTheme)

	admin := api.Group("/admin", protected, middleware.AdminRequired())
	admin.Put("/theme", h.ReplaceTheme)

	users := admin.Group("/users")
	users.Get("", h.ListUsers)
	users.Patch("/:id/status", h.SetUserStatus)
}
