package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/pickleball_coach/models"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already exists")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || (err != nil && strings.Contains(err.Error(), "duplicate key")) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, role models.Role, page, pageSize int) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	err := query.Order("created_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error
	return users, err
}

// SetActive reports false when no user has the given id.
func (r *UserRepository) SetActive(ctx context.Context, id uint, active bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).Select("full_name", "profile_picture_url", "updated_at").Updates(user).Error
}

func (r *UserRepository) ListActiveCoaches(ctx context.Context, page, pageSize int) ([]models.User, error) {
	var coaches []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleCoach, true).
		Order("full_name asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&coaches).Error
	return coaches, err
}
