package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/repository"
)

type profileStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	ListActiveCoaches(ctx context.Context, page, pageSize int) ([]models.User, error)
}

type ProfileService struct {
	users profileStore
}

func NewProfileService(users profileStore) *ProfileService {
	return &ProfileService{users: users}
}

type ProfileUpdate struct {
	FullName          *string
	ProfilePictureURL *string
}

func (s *ProfileService) Get(ctx context.Context, actor Actor) (*models.User, error) {
	if actor.UserID == 0 {
		return nil, &UnauthorizedError{Reason: "caller identity could not be established"}
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User")
	}
	return user, err
}

func (s *ProfileService) Update(ctx context.Context, actor Actor, update ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, invalid("Full name cannot be empty")
		}
		user.FullName = name
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = update.ProfilePictureURL
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListCoaches is the public coach directory.
func (s *ProfileService) ListCoaches(ctx context.Context, page, pageSize int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.users.ListActiveCoaches(ctx, page, pageSize)
}
