package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleCoach   Role = "coach"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                uint    `gorm:"primaryKey"`
	FullName          string  `gorm:"size:255;not null"`
	Email             string  `gorm:"size:255;not null;unique"`
	Password          string  `gorm:"not null"`
	Role              Role    `gorm:"size:20;not null;default:'student'"`
	ProfilePictureURL *string `gorm:"size:255"`
	IsActive          bool    `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
