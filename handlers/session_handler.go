package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
)

type trainingSessionService interface {
	RequestSession(ctx context.Context, actor services.Actor, input services.RequestSessionInput) (*models.TrainingSession, error)
	ConfirmSession(ctx context.Context, actor services.Actor, sessionID uint, input services.ConfirmSessionInput) (*models.TrainingSession, error)
	ScheduleSession(ctx context.Context, actor services.Actor, input services.ScheduleSessionInput) (*models.TrainingSession, error)
	ListForCoach(ctx context.Context, actor services.Actor) ([]models.TrainingSession, error)
	ListForStudent(ctx context.Context, actor services.Actor) ([]models.TrainingSession, error)
	CancelSession(ctx context.Context, actor services.Actor, sessionID uint) (bool, error)
	GetSession(ctx context.Context, sessionID uint) (*models.TrainingSession, error)
}

type SessionHandler struct {
	service trainingSessionService
}

func NewSessionHandler(service *services.TrainingSessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type requestSessionRequest struct {
	CoachID         uint    `json:"coach_id" validate:"required"`
	SessionType     string  `json:"session_type"`
	RequestedAt     string  `json:"requested_at" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0"`
	Notes           *string `json:"notes,omitempty"`
}

type scheduleSessionRequest struct {
	StudentID       uint    `json:"student_id"`
	CoachID         uint    `json:"coach_id"`
	MaterialID      *uint   `json:"material_id,omitempty"`
	SessionType     string  `json:"session_type"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0"`
	Price           float64 `json:"price" validate:"gte=0,lte=99999999.99"`
	MeetingLink     *string `json:"meeting_link,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type confirmSessionRequest struct {
	Price       float64 `json:"price" validate:"gte=0,lte=99999999.99"`
	MeetingLink *string `json:"meeting_link,omitempty"`
	Location    *string `json:"location,omitempty"`
}

func parseTimestamp(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, field+" must be a valid RFC3339 timestamp")
	}
	return t, nil
}

func (h *SessionHandler) Request(c *fiber.Ctx) error {
	var req requestSessionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	requestedAt, err := parseTimestamp("requested_at", req.RequestedAt)
	if err != nil {
		return err
	}

	session, err := h.service.RequestSession(c.UserContext(), middleware.CurrentActor(c), services.RequestSessionInput{
		CoachID:         req.CoachID,
		SessionType:     req.SessionType,
		RequestedAt:     requestedAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionView(session))
}

func (h *SessionHandler) Schedule(c *fiber.Ctx) error {
	var req scheduleSessionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	scheduledAt, err := parseTimestamp("scheduled_at", req.ScheduledAt)
	if err != nil {
		return err
	}

	session, err := h.service.ScheduleSession(c.UserContext(), middleware.CurrentActor(c), services.ScheduleSessionInput{
		StudentID:       req.StudentID,
		CoachID:         req.CoachID,
		MaterialID:      req.MaterialID,
		SessionType:     req.SessionType,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		MeetingLink:     req.MeetingLink,
		Location:        req.Location,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionView(session))
}

func (h *SessionHandler) Confirm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req confirmSessionRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	session, err := h.service.ConfirmSession(c.UserContext(), middleware.CurrentActor(c), id, services.ConfirmSessionInput{
		Price:       req.Price,
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sessionView(session))
}

// Cancel answers 404 both for missing sessions and for sessions the caller is not part of.
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cancelled, err := h.service.CancelSession(c.UserContext(), middleware.CurrentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	if !cancelled {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(fiber.Map{"message": "Session cancelled"})
}

func (h *SessionHandler) ListForCoach(c *fiber.Ctx) error {
	sessions, err := h.service.ListForCoach(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sessionViews(sessions))
}

func (h *SessionHandler) ListForStudent(c *fiber.Ctx) error {
	sessions, err := h.service.ListForStudent(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sessionViews(sessions))
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	session, err := h.service.GetSession(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	actor := middleware.CurrentActor(c)
	if actor.Role != models.RoleAdmin && !session.HasParticipant(actor.UserID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(sessionView(session))
}
