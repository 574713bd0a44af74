package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")
	api.Get("/coaches", h.ListCoaches)

	profile := api.Group("/profile", protected)
	profile.Get("", h.GetProfile)
	profile.Put("", h.UpdateProfile)
}
