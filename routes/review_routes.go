package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReviewRoutes(app *fiber.App, h *handlers.ReviewRequestHandler, protected fiber.Handler) {
	reviews := app.Group("/api/v1/review-requests", protected)

	reviews.Post("", middleware.StudentRequired(), h.Create)
	reviews.Get("/me", middleware.StudentRequired(), h.ListMine)
	reviews.Get("/open", h.ListOpen)
	reviews.Get("/coach", middleware.CoachRequired(), h.ListForCoach)
	reviews.Get("/:id", h.Get)

	reviews.Post("/:id/cancel", middleware.StudentRequired(), h.Cancel)
	reviews.Post("/:id/accept", middleware.CoachRequired(), h.Accept)
	reviews.Post("/:id/complete", middleware.CoachRequired(), h.Complete)
}
