package database

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/pickleball_coach/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ConnectDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.VideoReviewRequest{},
		&models.TrainingSession{},
		&models.TrainingMaterial{},
		&models.Course{},
		&models.MaterialPurchase{},
		&models.CoursePurchase{},
		&models.SiteTheme{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

type AdminSeed struct {
	Email    string
	Password string
	FullName string
}

// SeedAdmin creates the admin account once. An empty email or password skips seeding.
func SeedAdmin(db *gorm.DB, seed AdminSeed, logger *zap.Logger) error {
	if seed.Email == "" || seed.Password == "" {
		logger.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", seed.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		logger.Debug("admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := models.User{
		FullName: seed.FullName,
		Email:    seed.Email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logger.Info("admin user seeded", zap.String("email", seed.Email))
	return nil
}

// SeedTheme inserts the default theme unless one is already stored.
func SeedTheme(db *gorm.DB) error {
	theme := models.DefaultSiteTheme()
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&theme).Error
}
