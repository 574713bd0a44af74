package models

import "time"

type SessionStatus string

const (
	SessionPending   SessionStatus = "Pending"
	SessionConfirmed SessionStatus = "Confirmed"
	SessionCancelled SessionStatus = "Cancelled"
)

const (
	DefaultSessionType     = "Online"
	DefaultDurationMinutes = 60
)

type TrainingSession struct {
	ID              uint          `gorm:"primaryKey"`
	CoachID         uint          `gorm:"not null;index"`
	StudentID       uint          `gorm:"not null;index"`
	MaterialID      *uint         `gorm:"index"`
	SessionType     string        `gorm:"size:50;not null;default:'Online'"`
	ScheduledAt     time.Time     `gorm:"not null;index"`
	DurationMinutes int           `gorm:"not null;default:60"`
	Price           float64       `gorm:"type:numeric(10,2);not null;default:0"`
	Status          SessionStatus `gorm:"size:20;not null;default:'Pending';index"`
	MeetingLink     *string       `gorm:"size:255"`
	Location        *string       `gorm:"size:255"`
	Notes           *string       `gorm:"type:text"`

	Coach   *User `gorm:"foreignKey:CoachID"`
	Student *User `gorm:"foreignKey:StudentID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *TrainingSession) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

func (s *TrainingSession) HasParticipant(userID uint) bool {
	return s.CoachID == userID || s.StudentID == userID
}
