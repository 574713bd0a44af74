package handlers

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
)

type reviewRequestService interface {
	CreateRequest(ctx context.Context, actor services.Actor, input services.CreateReviewInput) (*models.VideoReviewRequest, error)
	ListForStudent(ctx context.Context, actor services.Actor) ([]models.VideoReviewRequest, error)
	CancelRequest(ctx context.Context, actor services.Actor, requestID uint) (bool, error)
	ListOpenForCoach(ctx context.Context, actor services.Actor) ([]models.VideoReviewRequest, error)
	ListGloballyOpen(ctx context.Context) ([]models.VideoReviewRequest, error)
	ListForCoach(ctx context.Context, actor services.Actor) ([]models.VideoReviewRequest, error)
	AcceptRequest(ctx context.Context, actor services.Actor, requestID uint) (*models.VideoReviewRequest, error)
	CompleteReview(ctx context.Context, actor services.Actor, requestID uint, reviewVideoURL, reviewNotes *string) (*models.VideoReviewRequest, error)
	GetRequest(ctx context.Context, requestID uint) (*models.VideoReviewRequest, error)
}

type ReviewRequestHandler struct {
	service reviewRequestService
}

func NewReviewRequestHandler(service *services.ReviewRequestService) *ReviewRequestHandler {
	return &ReviewRequestHandler{service: service}
}

type createReviewRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Description  string  `json:"description"`
	VideoURL     string  `json:"video_url" validate:"required,url"`
	OfferedPrice float64 `json:"offered_price" validate:"gte=0,lte=99999999.99"`
	CoachID      *uint   `json:"coach_id,omitempty"`
}

type completeReviewRequest struct {
	ReviewVideoURL *string `json:"review_video_url,omitempty" validate:"omitempty,url"`
	ReviewNotes    *string `json:"review_notes,omitempty"`
}

func (h *ReviewRequestHandler) Create(c *fiber.Ctx) error {
	var req createReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	created, err := h.service.CreateRequest(c.UserContext(), middleware.CurrentActor(c), services.CreateReviewInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		OfferedPrice: req.OfferedPrice,
		CoachID:      req.CoachID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reviewView(created))
}

func (h *ReviewRequestHandler) ListMine(c *fiber.Ctx) error {
	requests, err := h.service.ListForStudent(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reviewViews(requests))
}

// ListOpen shows coaches the requests they can accept. Everyone else sees only untargeted requests.
func (h *ReviewRequestHandler) ListOpen(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	var (
		requests []models.VideoReviewRequest
		err      error
	)
	if actor.Role == models.RoleCoach {
		requests, err = h.service.ListOpenForCoach(c.UserContext(), actor)
	} else {
		requests, err = h.service.ListGloballyOpen(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reviewViews(requests))
}

func (h *ReviewRequestHandler) ListForCoach(c *fiber.Ctx) error {
	requests, err := h.service.ListForCoach(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reviewViews(requests))
}

func (h *ReviewRequestHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := h.service.GetRequest(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !services.CanView(middleware.CurrentActor(c), req) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review request not found"})
	}
	return c.JSON(reviewView(req))
}

func (h *ReviewRequestHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.service.CancelRequest(c.UserContext(), middleware.CurrentActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review request cancelled"})
}

func (h *ReviewRequestHandler) Accept(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	accepted, err := h.service.AcceptRequest(c.UserContext(), middleware.CurrentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reviewView(accepted))
}

func (h *ReviewRequestHandler) Complete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req completeReviewRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	completed, err := h.service.CompleteReview(c.UserContext(), middleware.CurrentActor(c), id, req.ReviewVideoURL, req.ReviewNotes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reviewView(completed))
}
