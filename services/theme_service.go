package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/repository"
	"go.uber.org/zap"
)

type themeStore interface {
	Load(ctx context.Context) (*models.SiteTheme, error)
	Replace(ctx context.Context, theme *models.SiteTheme) error
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ThemeService owns the single site theme row. Replace swaps it wholesale.
type ThemeService struct {
	themes themeStore
	logger *zap.Logger
}

func NewThemeService(themes themeStore, logger *zap.Logger) *ThemeService {
	return &ThemeService{themes: themes, logger: logger}
}

// Load falls back to the built-in theme until an admin saves one.
func (s *ThemeService) Load(ctx context.Context) (*models.SiteTheme, error) {
	theme, err := s.themes.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		def := models.DefaultSiteTheme()
		return &def, nil
	}
	return theme, err
}

func (s *ThemeService) Replace(ctx context.Context, actor Actor, theme models.SiteTheme) (*models.SiteTheme, error) {
	if err := Authorize(actor, OpManageTheme); err != nil {
		return nil, err
	}
	if strings.TrimSpace(theme.SiteName) == "" {
		return nil, invalid("Site name is required")
	}
	if !hexColor.MatchString(theme.PrimaryColor) || !hexColor.MatchString(theme.SecondaryColor) {
		return nil, invalid("Colors must be hex values like #1E6F5C")
	}

	adminID := actor.UserID
	theme.ID = models.SiteThemeID
	theme.UpdatedByID = &adminID
	theme.UpdatedAt = time.Now().UTC()
	if err := s.themes.Replace(ctx, &theme); err != nil {
		return nil, err
	}
	s.logger.Info("site theme replaced", zap.Uint("admin_id", adminID), zap.String("site_name", theme.SiteName))
	return &theme, nil
}
