package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteThemeID is the primary key of the only theme row.
const SiteThemeID = 1

type SiteTheme struct {
	ID             uint              `gorm:"primaryKey"`
	SiteName       string            `gorm:"size:100;not null"`
	PrimaryColor   string            `gorm:"size:9;not null"`
	SecondaryColor string            `gorm:"size:9;not null"`
	FontFamily     string            `gorm:"size:100"`
	LogoURL        *string           `gorm:"type:text"`
	Palette        datatypes.JSONMap `gorm:"type:jsonb"`
	UpdatedByID    *uint
	UpdatedAt      time.Time
}

func DefaultSiteTheme() SiteTheme {
	return SiteTheme{
		ID:             SiteThemeID,
		SiteName:       "Pickleball Coach",
		PrimaryColor:   "#1E6F5C",
		SecondaryColor: "#F2C14E",
		FontFamily:     "Inter",
		Palette:        datatypes.JSONMap{},
	}
}
