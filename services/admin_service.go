package services

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"go.uber.org/zap"
)

type userAdminStore interface {
	List(ctx context.Context, role models.Role, page, pageSize int) ([]models.User, error)
	SetActive(ctx context.Context, id uint, active bool) (bool, error)
}

type AdminService struct {
	users  userAdminStore
	logger *zap.Logger
}

func NewAdminService(users userAdminStore, logger *zap.Logger) *AdminService {
	return &AdminService{users: users, logger: logger}
}

func (s *AdminService) ListUsers(ctx context.Context, actor Actor, role models.Role, page, pageSize int) ([]models.User, error) {
	if err := Authorize(actor, OpManageUsers); err != nil {
		return nil, err
	}
	if role != "" && !role.Valid() {
		return nil, invalid("Unknown role %q", role)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.users.List(ctx, role, page, pageSize)
}

func (s *AdminService) SetUserActive(ctx context.Context, actor Actor, userID uint, active bool) error {
	if err := Authorize(actor, OpManageUsers); err != nil {
		return err
	}
	if userID == actor.UserID && !active {
		return invalid("You cannot deactivate your own account")
	}
	found, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		return err
	}
	if !found {
		return notFound("User")
	}
	s.logger.Info("user status changed", zap.Uint("user_id", userID), zap.Bool("active", active), zap.Uint("admin_id", actor.UserID))
	return nil
}
