package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App, h *handlers.SessionHandler, protected fiber.Handler) {
	sessions := app.Group("/api/v1/sessions", protected)

	sessions.Post("/request", middleware.StudentRequired(), h.Request)
	sessions.Post("/schedule", h.Schedule)
	sessions.Get("/coach", middleware.CoachRequired(), h.ListForCoach)
	sessions.Get("/student", middleware.StudentRequired(), h.ListForStudent)
	sessions.Get("/:id", h.Get)

	sessions.Post("/:id/confirm", middleware.CoachRequired(), h.Confirm)
	sessions.Post("/:id/cancel", h.Cancel)
}
