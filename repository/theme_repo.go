package repository

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ThemeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

func (r *ThemeRepository) Load(ctx context.Context) (*models.SiteTheme, error) {
	var theme models.SiteTheme
	if err := r.db.WithContext(ctx).First(&theme, "id = ?", models.SiteThemeID).Error; err != nil {
		return nil, translate(err)
	}
	return &theme, nil
}

// Replace upserts the single theme row.
func (r *ThemeRepository) Replace(ctx context.Context, theme *models.SiteTheme) error {
	theme.ID = models.SiteThemeID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(theme).Error
}
