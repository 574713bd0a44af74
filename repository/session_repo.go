package repository

import (
	"context"
	"time"

	"github.com/anjiri1684/pickleball_coach/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.TrainingSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*models.TrainingSession, error) {
	var session models.TrainingSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *SessionRepository) ListByCoach(ctx context.Context, coachID uint) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := r.db.WithContext(ctx).
		Where("coach_id = ?", coachID).
		Order("scheduled_at asc").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("scheduled_at asc").
		Find(&sessions).Error
	return sessions, err
}

// ListConfirmedStartingBetween loads participants as well, for reminder emails.
func (r *SessionRepository) ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := r.db.WithContext(ctx).
		Preload("Coach").
		Preload("Student").
		Where("status = ? AND scheduled_at BETWEEN ? AND ?", models.SessionConfirmed, from, to).
		Order("scheduled_at asc").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at < ?", models.SessionPending, cutoff).
		Find(&sessions).Error
	return sessions, err
}

// UpdateIfStatus persists the mutable fields of session only while the stored status is still from.
func (r *SessionRepository) UpdateIfStatus(ctx context.Context, session *models.TrainingSession, from models.SessionStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TrainingSession{}).
		Where("id = ? AND status = ?", session.ID, from).
		Updates(map[string]interface{}{
			"status":       session.Status,
			"price":        session.Price,
			"meeting_link": session.MeetingLink,
			"location":     session.Location,
			"updated_at":   session.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
