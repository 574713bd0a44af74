package repository

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"gorm.io/gorm"
)

type ReviewRequestRepository struct {
	db *gorm.DB
}

func NewReviewRequestRepository(db *gorm.DB) *ReviewRequestRepository {
	return &ReviewRequestRepository{db: db}
}

func (r *ReviewRequestRepository) Create(ctx context.Context, req *models.VideoReviewRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *ReviewRequestRepository) GetByID(ctx context.Context, id uint) (*models.VideoReviewRequest, error) {
	var req models.VideoReviewRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *ReviewRequestRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.VideoReviewRequest, error) {
	var reqs []models.VideoReviewRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// ListOpen returns open requests visible to coachID: untargeted ones plus those targeted at the coach.
// A nil coachID returns only untargeted requests.
func (r *ReviewRequestRepository) ListOpen(ctx context.Context, coachID *uint) ([]models.VideoReviewRequest, error) {
	query := r.db.WithContext(ctx).Where("status = ?", models.ReviewOpen)
	if coachID != nil {
		query = query.Where("(coach_id IS NULL OR coach_id = ?)", *coachID)
	} else {
		query = query.Where("coach_id IS NULL")
	}

	var reqs []models.VideoReviewRequest
	err := query.Order("offered_price desc").Order("created_at desc").Find(&reqs).Error
	return reqs, err
}

func (r *ReviewRequestRepository) ListByCoach(ctx context.Context, coachID uint) ([]models.VideoReviewRequest, error) {
	var reqs []models.VideoReviewRequest
	err := r.db.WithContext(ctx).
		Where("accepted_by_coach_id = ? OR coach_id = ?", coachID, coachID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// UpdateIfStatus persists the mutable lifecycle fields of req only while the stored status is still from.
// It reports whether the row was updated.
func (r *ReviewRequestRepository) UpdateIfStatus(ctx context.Context, req *models.VideoReviewRequest, from models.ReviewStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VideoReviewRequest{}).
		Where("id = ? AND status = ?", req.ID, from).
		Updates(map[string]interface{}{
			"status":               req.Status,
			"accepted_by_coach_id": req.AcceptedByCoachID,
			"review_video_url":     req.ReviewVideoURL,
			"review_notes":         req.ReviewNotes,
			"accepted_at":          req.AcceptedAt,
			"completed_at":         req.CompletedAt,
			"updated_at":           req.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
