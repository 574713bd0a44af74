package handlers

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
)

type purchaseService interface {
	PurchaseMaterial(ctx context.Context, actor services.Actor, materialID uint) (*services.MaterialCheckout, error)
	PurchaseCourse(ctx context.Context, actor services.Actor, courseID uint) (*services.CourseCheckout, error)
	ListForStudent(ctx context.Context, actor services.Actor) (*services.StudentPurchases, error)
	CoachEarnings(ctx context.Context, actor services.Actor) (float64, error)
}

type PurchaseHandler struct {
	service purchaseService
}

func NewPurchaseHandler(service *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

type paymentView struct {
	PaymentRef   string  `json:"payment_ref"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
}

func (h *PurchaseHandler) PurchaseMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	checkout, err := h.service.PurchaseMaterial(c.UserContext(), middleware.CurrentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"purchase": materialPurchaseView(checkout.Purchase),
		"payment":  paymentView(checkout.Payment),
	})
}

func (h *PurchaseHandler) PurchaseCourse(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	checkout, err := h.service.PurchaseCourse(c.UserContext(), middleware.CurrentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"purchase": coursePurchaseView(checkout.Purchase),
		"payment":  paymentView(checkout.Payment),
	})
}

func (h *PurchaseHandler) ListMine(c *fiber.Ctx) error {
	purchases, err := h.service.ListForStudent(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	materials := make([]PurchaseResponse, 0, len(purchases.Materials))
	for i := range purchases.Materials {
		materials = append(materials, materialPurchaseView(&purchases.Materials[i]))
	}
	courses := make([]PurchaseResponse, 0, len(purchases.Courses))
	for i := range purchases.Courses {
		courses = append(courses, coursePurchaseView(&purchases.Courses[i]))
	}
	return c.JSON(fiber.Map{"materials": materials, "courses": courses})
}

func (h *PurchaseHandler) CoachEarnings(c *fiber.Ctx) error {
	total, err := h.service.CoachEarnings(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total_earnings": total})
}
