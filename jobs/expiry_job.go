package jobs

import (
	"context"
	"strconv"
	"time"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"go.uber.org/zap"
)

const pendingGrace = 15 * time.Minute

type stalePendingSessions interface {
	ListPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]models.TrainingSession, error)
	UpdateIfStatus(ctx context.Context, session *models.TrainingSession, from models.SessionStatus) (bool, error)
}

// PendingExpiry cancels session requests the coach never confirmed once their start time has passed.
type PendingExpiry struct {
	sessions  stalePendingSessions
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewPendingExpiry(sessions stalePendingSessions, publisher events.Publisher, logger *zap.Logger) *PendingExpiry {
	return &PendingExpiry{
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run returns the number of sessions cancelled. A session confirmed concurrently is left alone.
func (j *PendingExpiry) Run(ctx context.Context) int {
	now := j.now()
	stale, err := j.sessions.ListPendingStartedBefore(ctx, now.Add(-pendingGrace))
	if err != nil {
		j.logger.Error("error checking for stale session requests", zap.Error(err))
		return 0
	}

	expired := 0
	for i := range stale {
		session := &stale[i]
		session.Status = models.SessionCancelled
		session.UpdatedAt = now
		updated, err := j.sessions.UpdateIfStatus(ctx, session, models.SessionPending)
		if err != nil {
			j.logger.Error("failed to expire session request", zap.Uint("session_id", session.ID), zap.Error(err))
			continue
		}
		if !updated {
			continue
		}
		expired++
		if j.publisher != nil {
			j.publisher.Publish(ctx, events.Event{
				Kind:       events.SessionCancelled,
				EntityID:   strconv.FormatUint(uint64(session.ID), 10),
				Recipients: []uint{session.StudentID, session.CoachID},
				Payload:    map[string]interface{}{"status": session.Status, "reason": "expired"},
				OccurredAt: now,
			})
		}
	}
	if expired > 0 {
		j.logger.Info("expired unconfirmed session requests", zap.Int("count", expired))
	}
	return expired
}
