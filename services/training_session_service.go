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

type sessionStore interface {
	Create(ctx context.Context, session *models.TrainingSession) error
	GetByID(ctx context.Context, id uint) (*models.TrainingSession, error)
	ListByCoach(ctx context.Context, coachID uint) ([]models.TrainingSession, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.TrainingSession, error)
	UpdateIfStatus(ctx context.Context, session *models.TrainingSession, from models.SessionStatus) (bool, error)
}

type TrainingSessionService struct {
	sessions  sessionStore
	users     userReader
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewTrainingSessionService(sessions sessionStore, users userReader, publisher events.Publisher, logger *zap.Logger) *TrainingSessionService {
	return &TrainingSessionService{
		sessions:  sessions,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type RequestSessionInput struct {
	CoachID         uint
	SessionType     string
	RequestedAt     time.Time
	DurationMinutes int
	Notes           *string
}

type ScheduleSessionInput struct {
	StudentID       uint
	CoachID         uint
	MaterialID      *uint
	SessionType     string
	ScheduledAt     time.Time
	DurationMinutes int
	Price           float64
	MeetingLink     *string
	Location        *string
	Notes           *string
}

type ConfirmSessionInput struct {
	Price       float64
	MeetingLink *string
	Location    *string
}

// RequestSession creates a Pending session that the coach must confirm.
func (s *TrainingSessionService) RequestSession(ctx context.Context, actor Actor, input RequestSessionInput) (*models.TrainingSession, error) {
	if err := Authorize(actor, OpRequestSession); err != nil {
		return nil, err
	}
	duration, err := sessionDuration(input.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if input.RequestedAt.IsZero() {
		return nil, invalid("Requested time is required")
	}
	if input.CoachID == actor.UserID {
		return nil, invalid("You cannot book a session with yourself")
	}
	if err := requireCoach(ctx, s.users, input.CoachID); err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.TrainingSession{
		CoachID:         input.CoachID,
		StudentID:       actor.UserID,
		SessionType:     sessionType(input.SessionType),
		ScheduledAt:     input.RequestedAt.UTC(),
		DurationMinutes: duration,
		Status:          models.SessionPending,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("training session requested",
		zap.Uint("session_id", session.ID),
		zap.Uint("coach_id", session.CoachID),
		zap.Uint("student_id", session.StudentID),
	)
	s.publish(ctx, events.SessionRequested, session, actor.UserID, []uint{session.CoachID})
	return session, nil
}

// ConfirmSession reports a session that is missing or belongs to another coach as not found.
func (s *TrainingSessionService) ConfirmSession(ctx context.Context, actor Actor, sessionID uint, input ConfirmSessionInput) (*models.TrainingSession, error) {
	if err := Authorize(actor, OpConfirmSession); err != nil {
		return nil, err
	}
	if err := checkAmount("Price", input.Price); err != nil {
		return nil, err
	}
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CoachID != actor.UserID {
		return nil, notFound("Session")
	}

	from := session.Status
	to, err := NextSessionStatus(from, SessionActionConfirm)
	if err != nil {
		return nil, err
	}

	session.Status = to
	session.Price = input.Price
	session.MeetingLink = input.MeetingLink
	session.Location = input.Location
	session.UpdatedAt = s.now()
	if err := s.commit(ctx, session, from, SessionActionConfirm); err != nil {
		return nil, err
	}

	s.logger.Info("training session confirmed",
		zap.Uint("session_id", session.ID),
		zap.Uint("coach_id", session.CoachID),
		zap.Float64("price", session.Price),
	)
	s.publish(ctx, events.SessionConfirmed, session, actor.UserID, []uint{session.StudentID})
	return session, nil
}

// ScheduleSession creates an already Confirmed session. The caller must be the student or the coach on it.
func (s *TrainingSessionService) ScheduleSession(ctx context.Context, actor Actor, input ScheduleSessionInput) (*models.TrainingSession, error) {
	if err := Authorize(actor, OpScheduleSession); err != nil {
		return nil, err
	}
	switch actor.Role {
	case models.RoleStudent:
		input.StudentID = actor.UserID
	case models.RoleCoach:
		input.CoachID = actor.UserID
	}
	if input.StudentID == 0 || input.CoachID == 0 {
		return nil, invalid("Both coach and student are required")
	}
	if input.StudentID == input.CoachID {
		return nil, invalid("You cannot book a session with yourself")
	}
	duration, err := sessionDuration(input.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if input.ScheduledAt.IsZero() {
		return nil, invalid("Scheduled time is required")
	}
	if err := checkAmount("Price", input.Price); err != nil {
		return nil, err
	}
	if err := requireCoach(ctx, s.users, input.CoachID); err != nil {
		return nil, err
	}
	if err := requireStudent(ctx, s.users, input.StudentID); err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.TrainingSession{
		CoachID:         input.CoachID,
		StudentID:       input.StudentID,
		MaterialID:      input.MaterialID,
		SessionType:     sessionType(input.SessionType),
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Price:           input.Price,
		Status:          models.SessionConfirmed,
		MeetingLink:     input.MeetingLink,
		Location:        input.Location,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("training session scheduled",
		zap.Uint("session_id", session.ID),
		zap.Uint("coach_id", session.CoachID),
		zap.Uint("student_id", session.StudentID),
	)
	s.publish(ctx, events.SessionScheduled, session, actor.UserID, counterpart(session, actor.UserID))
	return session, nil
}

func (s *TrainingSessionService) ListForCoach(ctx context.Context, actor Actor) ([]models.TrainingSession, error) {
	if err := Authorize(actor, OpListCoachSessions); err != nil {
		return nil, err
	}
	return s.sessions.ListByCoach(ctx, actor.UserID)
}

func (s *TrainingSessionService) ListForStudent(ctx context.Context, actor Actor) ([]models.TrainingSession, error) {
	if err := Authorize(actor, OpListMySessions); err != nil {
		return nil, err
	}
	return s.sessions.ListByStudent(ctx, actor.UserID)
}

// CancelSession returns false without an error when the session does not exist or the actor
// is not one of its participants, so existence is not revealed to outsiders.
func (s *TrainingSessionService) CancelSession(ctx context.Context, actor Actor, sessionID uint) (bool, error) {
	if err := Authorize(actor, OpCancelSession); err != nil {
		return false, err
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !session.HasParticipant(actor.UserID) {
		return false, nil
	}

	from := session.Status
	to, err := NextSessionStatus(from, SessionActionCancel)
	if err != nil {
		return false, err
	}
	session.Status = to
	session.UpdatedAt = s.now()
	if err := s.commit(ctx, session, from, SessionActionCancel); err != nil {
		return false, err
	}

	s.logger.Info("training session cancelled", zap.Uint("session_id", session.ID), zap.Uint("cancelled_by", actor.UserID))
	s.publish(ctx, events.SessionCancelled, session, actor.UserID, counterpart(session, actor.UserID))
	return true, nil
}

// GetSession performs no visibility check; callers restrict it to participants.
func (s *TrainingSessionService) GetSession(ctx context.Context, sessionID uint) (*models.TrainingSession, error) {
	return s.load(ctx, sessionID)
}

func (s *TrainingSessionService) load(ctx context.Context, id uint) (*models.TrainingSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Session")
	}
	return session, err
}

func (s *TrainingSessionService) commit(ctx context.Context, session *models.TrainingSession, from models.SessionStatus, action SessionAction) error {
	updated, err := s.sessions.UpdateIfStatus(ctx, session, from)
	if err != nil {
		return err
	}
	if !updated {
		return illegal(sessionRejections[action])
	}
	return nil
}

func (s *TrainingSessionService) publish(ctx context.Context, kind events.Kind, session *models.TrainingSession, actorID uint, recipients []uint) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Kind:       kind,
		EntityID:   strconv.FormatUint(uint64(session.ID), 10),
		ActorID:    actorID,
		Recipients: recipients,
		Amount:     session.Price,
		Payload: map[string]interface{}{
			"status":       session.Status,
			"scheduled_at": session.ScheduledAt,
			"session_type": session.SessionType,
		},
		OccurredAt: session.UpdatedAt,
	})
}

func counterpart(session *models.TrainingSession, actorID uint) []uint {
	if session.CoachID == actorID {
		return []uint{session.StudentID}
	}
	return []uint{session.CoachID}
}

func sessionDuration(minutes int) (int, error) {
	if minutes == 0 {
		return models.DefaultDurationMinutes, nil
	}
	if minutes < 0 {
		return 0, invalid("Duration must be a positive number of minutes")
	}
	return minutes, nil
}

func sessionType(t string) string {
	if strings.TrimSpace(t) == "" {
		return models.DefaultSessionType
	}
	return t
}

func requireStudent(ctx context.Context, users userReader, studentID uint) error {
	student, err := users.GetByID(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid("Student not found")
	}
	if err != nil {
		return err
	}
	if student.Role != models.RoleStudent || !student.IsActive {
		return invalid("Student not found")
	}
	return nil
}
