package models

import (
	"time"

	"github.com/google/uuid"
)

// MaterialPurchase is an immutable snapshot of the price and fee split at purchase time.
type MaterialPurchase struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StudentID          uint      `gorm:"not null;index"`
	MaterialID         uint      `gorm:"not null;index"`
	CoachID            uint      `gorm:"not null;index"`
	PurchasePrice      float64   `gorm:"type:numeric(10,2);not null"`
	PlatformFee        float64   `gorm:"type:numeric(10,2);not null"`
	CoachEarnings      float64   `gorm:"type:numeric(10,2);not null"`
	ExternalPaymentRef string    `gorm:"size:255;not null;unique"`
	PurchasedAt        time.Time `gorm:"not null"`
	ReceiptURL         *string   `gorm:"type:text"`

	Material *TrainingMaterial `gorm:"foreignKey:MaterialID"`
}

type CoursePurchase struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StudentID          uint      `gorm:"not null;index"`
	CourseID           uint      `gorm:"not null;index"`
	CoachID            uint      `gorm:"not null;index"`
	PurchasePrice      float64   `gorm:"type:numeric(10,2);not null"`
	PlatformFee        float64   `gorm:"type:numeric(10,2);not null"`
	CoachEarnings      float64   `gorm:"type:numeric(10,2);not null"`
	ExternalPaymentRef string    `gorm:"size:255;not null;unique"`
	PurchasedAt        time.Time `gorm:"not null"`
	ReceiptURL         *string   `gorm:"type:text"`

	Course *Course `gorm:"foreignKey:CourseID"`
}
