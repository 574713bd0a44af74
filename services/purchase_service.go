package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/payments"
	"github.com/anjiri1684/pickleball_coach/repository"
	"github.com/anjiri1684/pickleball_coach/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeeSplit divides a sale between the platform and the coach.
type FeeSplit struct {
	PlatformRate float64
}

// Split rounds the platform fee to cents and gives the coach the remainder,
// so fee and earnings always sum to the price exactly.
func (f FeeSplit) Split(price float64) (platformFee, coachEarnings float64) {
	platformFee = utils.RoundCents(price * f.PlatformRate)
	coachEarnings = utils.RoundCents(price - platformFee)
	return platformFee, coachEarnings
}

type purchaseStore interface {
	CreateMaterialPurchase(ctx context.Context, p *models.MaterialPurchase) error
	CreateCoursePurchase(ctx context.Context, p *models.CoursePurchase) error
	ListMaterialPurchasesByStudent(ctx context.Context, studentID uint) ([]models.MaterialPurchase, error)
	ListCoursePurchasesByStudent(ctx context.Context, studentID uint) ([]models.CoursePurchase, error)
	SumCoachEarnings(ctx context.Context, coachID uint) (float64, error)
}

type catalogReader interface {
	GetMaterial(ctx context.Context, id uint) (*models.TrainingMaterial, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
}

type PurchaseService struct {
	purchases purchaseStore
	catalog   catalogReader
	gateway   payments.Gateway
	fees      FeeSplit
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewPurchaseService(purchases purchaseStore, catalog catalogReader, gateway payments.Gateway, fees FeeSplit, publisher events.Publisher, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		catalog:   catalog,
		gateway:   gateway,
		fees:      fees,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PaymentHandle is returned to the client so it can finish payment with the gateway.
type PaymentHandle struct {
	PaymentRef   string
	ClientSecret string
	Amount       float64
}

type MaterialCheckout struct {
	Purchase *models.MaterialPurchase
	Payment  PaymentHandle
}

type CourseCheckout struct {
	Purchase *models.CoursePurchase
	Payment  PaymentHandle
}

// PurchaseMaterial records the purchase as soon as the gateway hands out a payment intent;
// completion of the payment itself is not tracked.
func (s *PurchaseService) PurchaseMaterial(ctx context.Context, actor Actor, materialID uint) (*MaterialCheckout, error) {
	if err := Authorize(actor, OpPurchase); err != nil {
		return nil, err
	}
	material, err := s.catalog.GetMaterial(ctx, materialID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !material.IsPublished) {
		return nil, notFound("Material")
	}
	if err != nil {
		return nil, err
	}

	intent, err := s.createIntent(ctx, material.Price, fmt.Sprintf("Training material: %s", material.Title))
	if err != nil {
		return nil, err
	}

	fee, earnings := s.fees.Split(material.Price)
	purchase := &models.MaterialPurchase{
		ID:                 uuid.New(),
		StudentID:          actor.UserID,
		MaterialID:         material.ID,
		CoachID:            material.CoachID,
		PurchasePrice:      material.Price,
		PlatformFee:        fee,
		CoachEarnings:      earnings,
		ExternalPaymentRef: intent.ID,
		PurchasedAt:        s.now(),
	}
	if err := s.purchases.CreateMaterialPurchase(ctx, purchase); err != nil {
		return nil, err
	}

	s.logger.Info("material purchased",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Uint("material_id", material.ID),
		zap.Uint("student_id", actor.UserID),
		zap.Float64("price", purchase.PurchasePrice),
		zap.Float64("platform_fee", fee),
	)
	s.publish(ctx, events.MaterialPurchased, purchase.ID, actor.UserID, material.CoachID, purchase.PurchasePrice, fee, material.Title)

	return &MaterialCheckout{
		Purchase: purchase,
		Payment:  PaymentHandle{PaymentRef: intent.ID, ClientSecret: intent.ClientSecret, Amount: intent.Amount},
	}, nil
}

func (s *PurchaseService) PurchaseCourse(ctx context.Context, actor Actor, courseID uint) (*CourseCheckout, error) {
	if err := Authorize(actor, OpPurchase); err != nil {
		return nil, err
	}
	course, err := s.catalog.GetCourse(ctx, courseID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !course.IsPublished) {
		return nil, notFound("Course")
	}
	if err != nil {
		return nil, err
	}

	intent, err := s.createIntent(ctx, course.Price, fmt.Sprintf("Course: %s", course.Title))
	if err != nil {
		return nil, err
	}

	fee, earnings := s.fees.Split(course.Price)
	purchase := &models.CoursePurchase{
		ID:                 uuid.New(),
		StudentID:          actor.UserID,
		CourseID:           course.ID,
		CoachID:            course.CoachID,
		PurchasePrice:      course.Price,
		PlatformFee:        fee,
		CoachEarnings:      earnings,
		ExternalPaymentRef: intent.ID,
		PurchasedAt:        s.now(),
	}
	if err := s.purchases.CreateCoursePurchase(ctx, purchase); err != nil {
		return nil, err
	}

	s.logger.Info("course purchased",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Uint("course_id", course.ID),
		zap.Uint("student_id", actor.UserID),
		zap.Float64("price", purchase.PurchasePrice),
	)
	s.publish(ctx, events.CoursePurchased, purchase.ID, actor.UserID, course.CoachID, purchase.PurchasePrice, fee, course.Title)

	return &CourseCheckout{
		Purchase: purchase,
		Payment:  PaymentHandle{PaymentRef: intent.ID, ClientSecret: intent.ClientSecret, Amount: intent.Amount},
	}, nil
}

type StudentPurchases struct {
	Materials []models.MaterialPurchase
	Courses   []models.CoursePurchase
}

func (s *PurchaseService) ListForStudent(ctx context.Context, actor Actor) (*StudentPurchases, error) {
	if err := Authorize(actor, OpListPurchases); err != nil {
		return nil, err
	}
	materials, err := s.purchases.ListMaterialPurchasesByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	courses, err := s.purchases.ListCoursePurchasesByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &StudentPurchases{Materials: materials, Courses: courses}, nil
}

func (s *PurchaseService) CoachEarnings(ctx context.Context, actor Actor) (float64, error) {
	if err := Authorize(actor, OpCoachEarnings); err != nil {
		return 0, err
	}
	total, err := s.purchases.SumCoachEarnings(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	return utils.RoundCents(total), nil
}

func (s *PurchaseService) createIntent(ctx context.Context, price float64, description string) (*payments.Intent, error) {
	if price <= 0 {
		return nil, invalid("This item cannot be purchased for a zero price")
	}
	intent, err := s.gateway.CreatePaymentIntent(ctx, price, description)
	if errors.Is(err, payments.ErrInvalidAmount) {
		s.logger.Warn("payment provider rejected amount", zap.Error(err), zap.Float64("amount", price))
		return nil, invalid("The payment provider cannot charge a price of %v", price)
	}
	if err != nil {
		s.logger.Error("payment intent failed", zap.Error(err), zap.Float64("amount", price))
		return nil, fmt.Errorf("payment could not be initiated: %w", err)
	}
	// The purchase snapshot is the charged amount, so the two must agree.
	if intent.Amount != price {
		s.logger.Error("payment intent amount mismatch", zap.Float64("price", price), zap.Float64("charged", intent.Amount))
		return nil, fmt.Errorf("payment intent %s charges %v instead of %v", intent.ID, intent.Amount, price)
	}
	return intent, nil
}

func (s *PurchaseService) publish(ctx context.Context, kind events.Kind, id uuid.UUID, studentID, coachID uint, amount, fee float64, title string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Kind:       kind,
		EntityID:   id.String(),
		ActorID:    studentID,
		Recipients: []uint{coachID},
		Amount:     amount,
		Payload: map[string]interface{}{
			"title":          title,
			"platform_fee":   fee,
			"coach_earnings": utils.RoundCents(amount - fee),
		},
		OccurredAt: s.now(),
	})
}
