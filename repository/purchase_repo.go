package repository

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) CreateMaterialPurchase(ctx context.Context, p *models.MaterialPurchase) error {
	return r.db.WithContext(ctx).Omit("Material").Create(p).Error
}

func (r *PurchaseRepository) CreateCoursePurchase(ctx context.Context, p *models.CoursePurchase) error {
	return r.db.WithContext(ctx).Omit("Course").Create(p).Error
}

func (r *PurchaseRepository) SetMaterialReceiptURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).Model(&models.MaterialPurchase{}).Where("id = ?", id).Update("receipt_url", url).Error
}

func (r *PurchaseRepository) SetCourseReceiptURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).Model(&models.CoursePurchase{}).Where("id = ?", id).Update("receipt_url", url).Error
}

func (r *PurchaseRepository) ListMaterialPurchasesByStudent(ctx context.Context, studentID uint) ([]models.MaterialPurchase, error) {
	var purchases []models.MaterialPurchase
	err := r.db.WithContext(ctx).
		Preload("Material").
		Where("student_id = ?", studentID).
		Order("purchased_at desc").
		Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) ListCoursePurchasesByStudent(ctx context.Context, studentID uint) ([]models.CoursePurchase, error) {
	var purchases []models.CoursePurchase
	err := r.db.WithContext(ctx).
		Preload("Course.Materials").
		Where("student_id = ?", studentID).
		Order("purchased_at desc").
		Find(&purchases).Error
	return purchases, err
}

// SumCoachEarnings totals earnings across material and course purchases.
func (r *PurchaseRepository) SumCoachEarnings(ctx context.Context, coachID uint) (float64, error) {
	var materials, courses struct {
		Total float64
	}
	if err := r.db.WithContext(ctx).Model(&models.MaterialPurchase{}).
		Select("COALESCE(SUM(coach_earnings), 0) AS total").
		Where("coach_id = ?", coachID).
		Scan(&materials).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.CoursePurchase{}).
		Select("COALESCE(SUM(coach_earnings), 0) AS total").
		Where("coach_id = ?", coachID).
		Scan(&courses).Error; err != nil {
		return 0, err
	}
	return materials.Total + courses.Total, nil
}
