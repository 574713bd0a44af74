package repository

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateMaterial(ctx context.Context, material *models.TrainingMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *CatalogRepository) SaveMaterial(ctx context.Context, material *models.TrainingMaterial) error {
	return r.db.WithContext(ctx).Omit("Coach").Save(material).Error
}

func (r *CatalogRepository) GetMaterial(ctx context.Context, id uint) (*models.TrainingMaterial, error) {
	var material models.TrainingMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

func (r *CatalogRepository) ListMaterials(ctx context.Context, coachID *uint, publishedOnly bool) ([]models.TrainingMaterial, error) {
	query := r.db.WithContext(ctx).Model(&models.TrainingMaterial{})
	if coachID != nil {
		query = query.Where("coach_id = ?", *coachID)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var materials []models.TrainingMaterial
	err := query.Order("created_at desc").Find(&materials).Error
	return materials, err
}

// CreateCourse links the given materials through the course_materials join table.
func (r *CatalogRepository) CreateCourse(ctx context.Context, course *models.Course, materialIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Materials", "Coach").Create(course).Error; err != nil {
			return err
		}
		if len(materialIDs) == 0 {
			return nil
		}
		var materials []*models.TrainingMaterial
		if err := tx.Where("id IN ? AND coach_id = ?", materialIDs, course.CoachID).Find(&materials).Error; err != nil {
			return err
		}
		course.Materials = materials
		return tx.Model(course).Association("Materials").Replace(materials)
	})
}

func (r *CatalogRepository) SaveCourse(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit("Materials", "Coach").Save(course).Error
}

func (r *CatalogRepository) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Materials").First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *CatalogRepository) ListCourses(ctx context.Context, coachID *uint, publishedOnly bool) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})
	if coachID != nil {
		query = query.Where("coach_id = ?", *coachID)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var courses []models.Course
	err := query.Order("created_at desc").Find(&courses).Error
	return courses, err
}
