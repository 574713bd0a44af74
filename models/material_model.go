package models

import "time"

type TrainingMaterial struct {
	ID          uint    `gorm:"primaryKey"`
	CoachID     uint    `gorm:"not null;index"`
	Title       string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	Category    string  `gorm:"size:50"`
	FileURL     *string `gorm:"type:text"`
	Price       float64 `gorm:"type:numeric(10,2);not null;default:0"`
	IsPublished bool    `gorm:"default:false;index"`

	Coach *User `gorm:"foreignKey:CoachID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Course struct {
	ID           uint    `gorm:"primaryKey"`
	CoachID      uint    `gorm:"not null;index"`
	Title        string  `gorm:"size:255;not null"`
	Description  string  `gorm:"type:text"`
	SkillLevel   string  `gorm:"size:30"`
	ThumbnailURL *string `gorm:"type:text"`
	Price        float64 `gorm:"type:numeric(10,2);not null;default:0"`
	IsPublished  bool    `gorm:"default:false;index"`

	Materials []*TrainingMaterial `gorm:"many2many:course_materials;"`
	Coach     *User               `gorm:"foreignKey:CoachID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
