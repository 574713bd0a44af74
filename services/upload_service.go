package services

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/storage"
	"go.uber.org/zap"
)

// uploaders lists who may push files into each category. Receipts are only written by the server.
var uploaders = map[storage.Category][]models.Role{
	storage.CategoryReviewVideo:    studentOnly,
	storage.CategoryReviewFeedback: coachOnly,
	storage.CategoryMaterial:       coachOnly,
	storage.CategoryAvatar:         {models.RoleStudent, models.RoleCoach, models.RoleAdmin},
	storage.CategoryThemeLogo:      adminOnly,
}

type UploadService struct {
	assets storage.AssetStore
	logger *zap.Logger
}

func NewUploadService(assets storage.AssetStore, logger *zap.Logger) *UploadService {
	return &UploadService{assets: assets, logger: logger}
}

// CanUpload reports whether actor may store files of the category.
func CanUpload(actor Actor, category storage.Category) error {
	if actor.UserID == 0 {
		return &UnauthorizedError{Reason: "caller identity could not be established"}
	}
	for _, role := range uploaders[category] {
		if actor.Role == role {
			return nil
		}
	}
	return &ForbiddenError{Operation: Operation("upload " + string(category))}
}

func (s *UploadService) Upload(ctx context.Context, actor Actor, category storage.Category, file storage.Upload) (string, error) {
	if err := CanUpload(actor, category); err != nil {
		return "", err
	}
	file.OwnerID = actor.UserID
	url, err := s.assets.Store(ctx, file, category)
	if err != nil {
		return "", err
	}
	s.logger.Info("asset uploaded",
		zap.Uint("owner_id", actor.UserID),
		zap.String("category", string(category)),
		zap.Int64("size", file.Size),
	)
	return url, nil
}
