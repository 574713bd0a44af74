package routes

import (
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func CatalogRoutes(app *fiber.App, catalog *handlers.CatalogHandler, purchases *handlers.PurchaseHandler, protected, optional fiber.Handler) {
	api := app.Group("/api/v1")

	materials := api.Group("/materials")
	materials.Get("", catalog.ListMaterials)
	materials.Get("/mine", protected, middleware.CoachRequired(), catalog.ListMyMaterials)
	materials.Get("/:id", optional, catalog.GetMaterial)
	materials.Post("", protected, middleware.CoachRequired(), catalog.CreateMaterial)
	materials.Put("/:id", protected, middleware.CoachRequired(), catalog.UpdateMaterial)
	materials.Post("/:id/purchase", protected, middleware.StudentRequired(), purchases.PurchaseMaterial)

	courses := api.Group("/courses")
	courses.Get("", catalog.ListCourses)
	courses.Get("/:id", optional, catalog.GetCourse)
	courses.Post("", protected, middleware.CoachRequired(), catalog.CreateCourse)
	courses.Put("/:id", protected, middleware.CoachRequired(), catalog.UpdateCourse)
	courses.Post("/:id/purchase", protected, middleware.StudentRequired(), purchases.PurchaseCourse)
}
