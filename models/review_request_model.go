package models

import "time"

type ReviewStatus string

const (
	ReviewOpen      ReviewStatus = "Open"
	ReviewAccepted  ReviewStatus = "Accepted"
	ReviewCompleted ReviewStatus = "Completed"
	ReviewCancelled ReviewStatus = "Cancelled"
)

// Terminal reports whether no further transition may leave the status.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewCompleted || s == ReviewCancelled
}

// VideoReviewRequest is a student's paid request for a coach to review a recorded video.
// A nil CoachID means the request is open to any coach.
type VideoReviewRequest struct {
	ID                uint         `gorm:"primaryKey"`
	StudentID         uint         `gorm:"not null;index"`
	CoachID           *uint        `gorm:"index"`
	Title             string       `gorm:"size:255;not null"`
	Description       string       `gorm:"type:text"`
	VideoURL          string       `gorm:"type:text;not null"`
	OfferedPrice      float64      `gorm:"type:numeric(10,2);not null;default:0"`
	Status            ReviewStatus `gorm:"size:20;not null;default:'Open';index"`
	AcceptedByCoachID *uint        `gorm:"index"`
	ReviewVideoURL    *string      `gorm:"type:text"`
	ReviewNotes       *string      `gorm:"type:text"`

	Student *User `gorm:"foreignKey:StudentID"`
	Coach   *User `gorm:"foreignKey:CoachID"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	AcceptedAt  *time.Time
	CompletedAt *time.Time
}
