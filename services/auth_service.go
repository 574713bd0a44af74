package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/repository"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

var ErrEmailTaken = errors.New("email already exists")

type userAccountStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService issues HS256 tokens carrying user_id and role.
type AuthService struct {
	users  userAccountStore
	secret []byte
	logger *zap.Logger
}

func NewAuthService(users userAccountStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, secret: []byte(jwtSecret), logger: logger}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     models.Role
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Role == "" {
		input.Role = models.RoleStudent
	}
	if input.Role != models.RoleStudent && input.Role != models.RoleCoach {
		return nil, invalid("Role must be student or coach")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FullName: input.FullName,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashed),
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login returns an UnauthorizedError for unknown emails, wrong passwords and deactivated accounts alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, &UnauthorizedError{Reason: "Invalid email or password"}
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, &UnauthorizedError{Reason: "Invalid email or password"}
	}
	if !user.IsActive {
		return "", nil, &UnauthorizedError{Reason: "Invalid email or password"}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatUint(uint64(user.ID), 10),
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
