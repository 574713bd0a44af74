package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func RealtimeRoutes(app *fiber.App, h *handlers.WSHandler, metrics fiber.Handler) {
	app.Use("/api/v1/ws", handlers.Upgrade)
	app.Get("/api/v1/ws", websocket.New(h.Serve))

	app.Get("/metrics", metrics)
}
