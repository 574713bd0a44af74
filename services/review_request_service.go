package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/repository"
	"go.uber.org/zap"
)

type reviewRequestStore interface {
	Create(ctx context.Context, req *models.VideoReviewRequest) error
	GetByID(ctx context.Context, id uint) (*models.VideoReviewRequest, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.VideoReviewRequest, error)
	ListOpen(ctx context.Context, coachID *uint) ([]models.VideoReviewRequest, error)
	ListByCoach(ctx context.Context, coachID uint) ([]models.VideoReviewRequest, error)
	UpdateIfStatus(ctx context.Context, req *models.VideoReviewRequest, from models.ReviewStatus) (bool, error)
}

type userReader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type ReviewRequestService struct {
	requests  reviewRequestStore
	users     userReader
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewReviewRequestService(requests reviewRequestStore, users userReader, publisher events.Publisher, logger *zap.Logger) *ReviewRequestService {
	return &ReviewRequestService{
		requests:  requests,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateReviewInput struct {
	Title        string
	Description  string
	VideoURL     string
	OfferedPrice float64
	CoachID      *uint
}

func (s *ReviewRequestService) CreateRequest(ctx context.Context, actor Actor, input CreateReviewInput) (*models.VideoReviewRequest, error) {
	if err := Authorize(actor, OpCreateReview); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalid("Title is required")
	}
	if strings.TrimSpace(input.VideoURL) == "" {
		return nil, invalid("Video URL is required")
	}
	if err := checkAmount("Offered price", input.OfferedPrice); err != nil {
		return nil, err
	}
	if input.CoachID != nil {
		if err := requireCoach(ctx, s.users, *input.CoachID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	req := &models.VideoReviewRequest{
		StudentID:    actor.UserID,
		CoachID:      input.CoachID,
		Title:        input.Title,
		Description:  input.Description,
		VideoURL:     input.VideoURL,
		OfferedPrice: input.OfferedPrice,
		Status:       models.ReviewOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("video review requested",
		zap.Uint("request_id", req.ID),
		zap.Uint("student_id", req.StudentID),
		zap.Float64("offered_price", req.OfferedPrice),
	)
	recipients := []uint{}
	if req.CoachID != nil {
		recipients = append(recipients, *req.CoachID)
	}
	s.publish(ctx, events.ReviewRequested, req, actor.UserID, recipients)
	return req, nil
}

func (s *ReviewRequestService) ListForStudent(ctx context.Context, actor Actor) ([]models.VideoReviewRequest, error) {
	if err := Authorize(actor, OpListMyReviews); err != nil {
		return nil, err
	}
	return s.requests.ListByStudent(ctx, actor.UserID)
}

// CancelRequest withdraws an open request. A request owned by another student is reported as not found.
func (s *ReviewRequestService) CancelRequest(ctx context.Context, actor Actor, requestID uint) (bool, error) {
	if err := Authorize(actor, OpCancelReview); err != nil {
		return false, err
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return false, err
	}
	if req.StudentID != actor.UserID {
		return false, notFound("Review request")
	}

	from := req.Status
	to, err := NextReviewStatus(from, ReviewActionCancel)
	if err != nil {
		return false, err
	}
	req.Status = to
	req.UpdatedAt = s.now()
	if err := s.commit(ctx, req, from, ReviewActionCancel); err != nil {
		return false, err
	}

	s.logger.Info("video review cancelled", zap.Uint("request_id", req.ID), zap.Uint("student_id", actor.UserID))
	recipients := []uint{}
	if req.CoachID != nil {
		recipients = append(recipients, *req.CoachID)
	}
	s.publish(ctx, events.ReviewCancelled, req, actor.UserID, recipients)
	return true, nil
}

func (s *ReviewRequestService) ListOpenForCoach(ctx context.Context, actor Actor) ([]models.VideoReviewRequest, error) {
	if err := Authorize(actor, OpListOpenReviews); err != nil {
		return nil, err
	}
	coachID := actor.UserID
	return s.requests.ListOpen(ctx, &coachID)
}

// ListGloballyOpen returns only untargeted open requests. It is the anonymous variant of ListOpenForCoach.
func (s *ReviewRequestService) ListGloballyOpen(ctx context.Context) ([]models.VideoReviewRequest, error) {
	return s.requests.ListOpen(ctx, nil)
}

func (s *ReviewRequestService) ListForCoach(ctx context.Context, actor Actor) ([]models.VideoReviewRequest, error) {
	if err := Authorize(actor, OpListCoachReviews); err != nil {
		return nil, err
	}
	return s.requests.ListByCoach(ctx, actor.UserID)
}

func (s *ReviewRequestService) AcceptRequest(ctx context.Context, actor Actor, requestID uint) (*models.VideoReviewRequest, error) {
	if err := Authorize(actor, OpAcceptReview); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	from := req.Status
	to, err := NextReviewStatus(from, ReviewActionAccept)
	if err != nil {
		return nil, err
	}
	if req.CoachID != nil && *req.CoachID != actor.UserID {
		return nil, illegal("This request is for a specific coach")
	}

	now := s.now()
	coachID := actor.UserID
	req.Status = to
	req.AcceptedByCoachID = &coachID
	req.AcceptedAt = &now
	req.UpdatedAt = now
	if err := s.commit(ctx, req, from, ReviewActionAccept); err != nil {
		return nil, err
	}

	s.logger.Info("video review accepted", zap.Uint("request_id", req.ID), zap.Uint("coach_id", coachID))
	s.publish(ctx, events.ReviewAccepted, req, coachID, []uint{req.StudentID})
	return req, nil
}

func (s *ReviewRequestService) CompleteReview(ctx context.Context, actor Actor, requestID uint, reviewVideoURL, reviewNotes *string) (*models.VideoReviewRequest, error) {
	if err := Authorize(actor, OpCompleteReview); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.AcceptedByCoachID == nil || *req.AcceptedByCoachID != actor.UserID {
		return nil, illegal("You are not assigned to this review")
	}

	from := req.Status
	to, err := NextReviewStatus(from, ReviewActionComplete)
	if err != nil {
		return nil, err
	}

	now := s.now()
	req.Status = to
	req.ReviewVideoURL = reviewVideoURL
	req.ReviewNotes = reviewNotes
	req.CompletedAt = &now
	req.UpdatedAt = now
	if err := s.commit(ctx, req, from, ReviewActionComplete); err != nil {
		return nil, err
	}

	s.logger.Info("video review completed", zap.Uint("request_id", req.ID), zap.Uint("coach_id", actor.UserID))
	s.publish(ctx, events.ReviewCompleted, req, actor.UserID, []uint{req.StudentID})
	return req, nil
}

// GetRequest performs no visibility check; see CanView.
func (s *ReviewRequestService) GetRequest(ctx context.Context, requestID uint) (*models.VideoReviewRequest, error) {
	return s.load(ctx, requestID)
}

// CanView reports whether the actor is the owning student, the targeted coach, the accepting coach, or an admin.
func CanView(actor Actor, req *models.VideoReviewRequest) bool {
	switch {
	case actor.Role == models.RoleAdmin:
		return true
	case req.StudentID == actor.UserID:
		return true
	case req.CoachID != nil && *req.CoachID == actor.UserID:
		return true
	case req.AcceptedByCoachID != nil && *req.AcceptedByCoachID == actor.UserID:
		return true
	}
	return false
}

func (s *ReviewRequestService) load(ctx context.Context, id uint) (*models.VideoReviewRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Review request")
	}
	return req, err
}

// commit persists a transition with compare-and-set on the status read earlier.
// Losing the race surfaces as the same rejection the transition table gives.
func (s *ReviewRequestService) commit(ctx context.Context, req *models.VideoReviewRequest, from models.ReviewStatus, action ReviewAction) error {
	updated, err := s.requests.UpdateIfStatus(ctx, req, from)
	if err != nil {
		return err
	}
	if !updated {
		return illegal(reviewRejections[action])
	}
	return nil
}

func (s *ReviewRequestService) publish(ctx context.Context, kind events.Kind, req *models.VideoReviewRequest, actorID uint, recipients []uint) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Kind:       kind,
		EntityID:   strconv.FormatUint(uint64(req.ID), 10),
		ActorID:    actorID,
		Recipients: recipients,
		Amount:     req.OfferedPrice,
		Payload: map[string]interface{}{
			"title":  req.Title,
			"status": req.Status,
		},
		OccurredAt: req.UpdatedAt,
	})
}

func requireCoach(ctx context.Context, users userReader, coachID uint) error {
	coach, err := users.GetByID(ctx, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid("Coach not found")
	}
	if err != nil {
		return err
	}
	if coach.Role != models.RoleCoach || !coach.IsActive {
		return invalid("Coach not found")
	}
	return nil
}
