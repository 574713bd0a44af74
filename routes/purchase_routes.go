package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func PurchaseRoutes(app *fiber.App, h *handlers.PurchaseHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")
	api.Get("/purchases/me", protected, middleware.StudentRequired(), h.ListMine)
	api.Get("/coach/earnings", protected, middleware.CoachRequired(), h.CoachEarnings)
}
