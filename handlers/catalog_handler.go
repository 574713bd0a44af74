package handlers

import (
	"context"
	"strconv"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
)

type catalogService interface {
	CreateMaterial(ctx context.Context, actor services.Actor, input services.MaterialInput) (*models.TrainingMaterial, error)
	UpdateMaterial(ctx context.Context, actor services.Actor, id uint, input services.MaterialInput) (*models.TrainingMaterial, error)
	GetMaterial(ctx context.Context, actor services.Actor, id uint) (*models.TrainingMaterial, error)
	ListPublishedMaterials(ctx context.Context, coachID *uint) ([]models.TrainingMaterial, error)
	ListMyMaterials(ctx context.Context, actor services.Actor) ([]models.TrainingMaterial, error)
	CreateCourse(ctx context.Context, actor services.Actor, input services.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, actor services.Actor, id uint, input services.CourseInput) (*models.Course, error)
	GetCourse(ctx context.Context, actor services.Actor, id uint) (*models.Course, error)
	ListPublishedCourses(ctx context.Context, coachID *uint) ([]models.Course, error)
}

type CatalogHandler struct {
	service catalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type materialRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"max=50"`
	FileURL     *string `json:"file_url,omitempty" validate:"omitempty,url"`
	Price       float64 `json:"price" validate:"gte=0,lte=99999999.99"`
	IsPublished bool    `json:"is_published"`
}

func (r materialRequest) input() services.MaterialInput {
	return services.MaterialInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		FileURL:     r.FileURL,
		Price:       r.Price,
		IsPublished: r.IsPublished,
	}
}

type courseRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Description  string  `json:"description"`
	SkillLevel   string  `json:"skill_level" validate:"omitempty,oneof=beginner intermediate advanced pro"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	Price        float64 `json:"price" validate:"gte=0,lte=99999999.99"`
	IsPublished  bool    `json:"is_published"`
	MaterialIDs  []uint  `json:"material_ids"`
}

func (r courseRequest) input() services.CourseInput {
	return services.CourseInput{
		Title:        r.Title,
		Description:  r.Description,
		SkillLevel:   r.SkillLevel,
		ThumbnailURL: r.ThumbnailURL,
		Price:        r.Price,
		IsPublished:  r.IsPublished,
		MaterialIDs:  r.MaterialIDs,
	}
}

func coachFilter(c *fiber.Ctx) (*uint, error) {
	raw := c.Query("coach_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "coach_id must be a number")
	}
	coachID := uint(id)
	return &coachID, nil
}

func (h *CatalogHandler) ListMaterials(c *fiber.Ctx) error {
	coachID, err := coachFilter(c)
	if err != nil {
		return err
	}
	materials, err := h.service.ListPublishedMaterials(c.UserContext(), coachID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, publicMaterialView(&materials[i]))
	}
	return c.JSON(out)
}

func (h *CatalogHandler) ListMyMaterials(c *fiber.Ctx) error {
	materials, err := h.service.ListMyMaterials(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, materialView(&materials[i]))
	}
	return c.JSON(out)
}

func (h *CatalogHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	actor := middleware.CurrentActor(c)
	material, err := h.service.GetMaterial(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	if material.CoachID == actor.UserID {
		return c.JSON(materialView(material))
	}
	return c.JSON(publicMaterialView(material))
}

func (h *CatalogHandler) CreateMaterial(c *fiber.Ctx) error {
	var req materialRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	material, err := h.service.CreateMaterial(c.UserContext(), middleware.CurrentActor(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(materialView(material))
}

func (h *CatalogHandler) UpdateMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req materialRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	material, err := h.service.UpdateMaterial(c.UserContext(), middleware.CurrentActor(c), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(materialView(material))
}

func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	coachID, err := coachFilter(c)
	if err != nil {
		return err
	}
	courses, err := h.service.ListPublishedCourses(c.UserContext(), coachID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, courseView(&courses[i], false))
	}
	return c.JSON(out)
}

func (h *CatalogHandler) GetCourse(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	actor := middleware.CurrentActor(c)
	course, err := h.service.GetCourse(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(courseView(course, course.CoachID == actor.UserID))
}

func (h *CatalogHandler) CreateCourse(c *fiber.Ctx) error {
	var req courseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	course, err := h.service.CreateCourse(c.UserContext(), middleware.CurrentActor(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(courseView(course, true))
}

func (h *CatalogHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req courseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	course, err := h.service.UpdateCourse(c.UserContext(), middleware.CurrentActor(c), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(courseView(course, true))
}
