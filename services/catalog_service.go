package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/repository"
	"go.uber.org/zap"
)

type catalogStore interface {
	catalogReader
	CreateMaterial(ctx context.Context, material *models.TrainingMaterial) error
	SaveMaterial(ctx context.Context, material *models.TrainingMaterial) error
	ListMaterials(ctx context.Context, coachID *uint, publishedOnly bool) ([]models.TrainingMaterial, error)
	CreateCourse(ctx context.Context, course *models.Course, materialIDs []uint) error
	SaveCourse(ctx context.Context, course *models.Course) error
	ListCourses(ctx context.Context, coachID *uint, publishedOnly bool) ([]models.Course, error)
}

// CatalogService manages the materials and courses coaches sell.
type CatalogService struct {
	catalog catalogStore
	logger  *zap.Logger
}

func NewCatalogService(catalog catalogStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

type MaterialInput struct {
	Title       string
	Description string
	Category    string
	FileURL     *string
	Price       float64
	IsPublished bool
}

type CourseInput struct {
	Title        string
	Description  string
	SkillLevel   string
	ThumbnailURL *string
	Price        float64
	IsPublished  bool
	MaterialIDs  []uint
}

func (s *CatalogService) CreateMaterial(ctx context.Context, actor Actor, input MaterialInput) (*models.TrainingMaterial, error) {
	if err := Authorize(actor, OpManageCatalog); err != nil {
		return nil, err
	}
	if err := validateListing(input.Title, input.Price); err != nil {
		return nil, err
	}
	material := &models.TrainingMaterial{
		CoachID:     actor.UserID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		FileURL:     input.FileURL,
		Price:       input.Price,
		IsPublished: input.IsPublished,
	}
	if err := s.catalog.CreateMaterial(ctx, material); err != nil {
		return nil, err
	}
	s.logger.Info("material created", zap.Uint("material_id", material.ID), zap.Uint("coach_id", actor.UserID))
	return material, nil
}

// UpdateMaterial treats a material owned by another coach as missing.
func (s *CatalogService) UpdateMaterial(ctx context.Context, actor Actor, id uint, input MaterialInput) (*models.TrainingMaterial, error) {
	if err := Authorize(actor, OpManageCatalog); err != nil {
		return nil, err
	}
	if err := validateListing(input.Title, input.Price); err != nil {
		return nil, err
	}
	material, err := s.catalog.GetMaterial(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && material.CoachID != actor.UserID) {
		return nil, notFound("Material")
	}
	if err != nil {
		return nil, err
	}

	material.Title = input.Title
	material.Description = input.Description
	material.Category = input.Category
	if input.FileURL != nil {
		material.FileURL = input.FileURL
	}
	material.Price = input.Price
	material.IsPublished = input.IsPublished
	if err := s.catalog.SaveMaterial(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// GetMaterial hides unpublished materials from everyone except their coach.
func (s *CatalogService) GetMaterial(ctx context.Context, actor Actor, id uint) (*models.TrainingMaterial, error) {
	material, err := s.catalog.GetMaterial(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Material")
	}
	if err != nil {
		return nil, err
	}
	if !material.IsPublished && material.CoachID != actor.UserID {
		return nil, notFound("Material")
	}
	return material, nil
}

func (s *CatalogService) ListPublishedMaterials(ctx context.Context, coachID *uint) ([]models.TrainingMaterial, error) {
	return s.catalog.ListMaterials(ctx, coachID, true)
}

func (s *CatalogService) ListMyMaterials(ctx context.Context, actor Actor) ([]models.TrainingMaterial, error) {
	if err := Authorize(actor, OpManageCatalog); err != nil {
		return nil, err
	}
	coachID := actor.UserID
	return s.catalog.ListMaterials(ctx, &coachID, false)
}

func (s *CatalogService) CreateCourse(ctx context.Context, actor Actor, input CourseInput) (*models.Course, error) {
	if err := Authorize(actor, OpManageCatalog); err != nil {
		return nil, err
	}
	if err := validateListing(input.Title, input.Price); err != nil {
		return nil, err
	}
	course := &models.Course{
		CoachID:      actor.UserID,
		Title:        input.Title,
		Description:  input.Description,
		SkillLevel:   input.SkillLevel,
		ThumbnailURL: input.ThumbnailURL,
		Price:        input.Price,
		IsPublished:  input.IsPublished,
	}
	if err := s.catalog.CreateCourse(ctx, course, input.MaterialIDs); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.Uint("course_id", course.ID), zap.Uint("coach_id", actor.UserID))
	return course, nil
}

func (s *CatalogService) UpdateCourse(ctx context.Context, actor Actor, id uint, input CourseInput) (*models.Course, error) {
	if err := Authorize(actor, OpManageCatalog); err != nil {
		return nil, err
	}
	if err := validateListing(input.Title, input.Price); err != nil {
		return nil, err
	}
	course, err := s.catalog.GetCourse(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && course.CoachID != actor.UserID) {
		return nil, notFound("Course")
	}
	if err != nil {
		return nil, err
	}

	course.Title = input.Title
	course.Description = input.Description
	course.SkillLevel = input.SkillLevel
	if input.ThumbnailURL != nil {
		course.ThumbnailURL = input.ThumbnailURL
	}
	course.Price = input.Price
	course.IsPublished = input.IsPublished
	if err := s.catalog.SaveCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, actor Actor, id uint) (*models.Course, error) {
	course, err := s.catalog.GetCourse(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Course")
	}
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && course.CoachID != actor.UserID {
		return nil, notFound("Course")
	}
	return course, nil
}

func (s *CatalogService) ListPublishedCourses(ctx context.Context, coachID *uint) ([]models.Course, error) {
	return s.catalog.ListCourses(ctx, coachID, true)
}

func validateListing(title string, price float64) error {
	if strings.TrimSpace(title) == "" {
		return invalid("Title is required")
	}
	return checkAmount("Price", price)
}
