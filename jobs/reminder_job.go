package jobs

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/notifications"
	"go.uber.org/zap"
)

const (
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
)

type upcomingSessions interface {
	ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]models.TrainingSession, error)
}

// SessionReminder emails both participants of confirmed sessions that start in about an hour.
// It is meant to run every five minutes so each session falls into exactly one window.
type SessionReminder struct {
	sessions upcomingSessions
	mailer   notifications.Mailer
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionReminder(sessions upcomingSessions, mailer notifications.Mailer, logger *zap.Logger) *SessionReminder {
	return &SessionReminder{
		sessions: sessions,
		mailer:   mailer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run returns the number of sessions reminded.
func (j *SessionReminder) Run(ctx context.Context) int {
	now := j.now()
	lowerBound := now.Add(reminderLead)
	upperBound := lowerBound.Add(reminderWindow)

	upcoming, err := j.sessions.ListConfirmedStartingBetween(ctx, lowerBound, upperBound)
	if err != nil {
		j.logger.Error("error checking for upcoming sessions", zap.Error(err))
		return 0
	}

	for _, session := range upcoming {
		subject := "Reminder: Your training session starts in 1 hour!"
		body := reminderBody(session)
		for _, participant := range []*models.User{session.Student, session.Coach} {
			if participant == nil {
				continue
			}
			if err := j.mailer.Send(ctx, participant.Email, participant.FullName, subject, body); err != nil {
				j.logger.Error("failed to send session reminder",
					zap.Uint("session_id", session.ID),
					zap.String("to", participant.Email),
					zap.Error(err),
				)
			}
		}
	}
	if len(upcoming) > 0 {
		j.logger.Info("session reminders sent", zap.Int("count", len(upcoming)))
	}
	return len(upcoming)
}

func reminderBody(session models.TrainingSession) string {
	body := fmt.Sprintf(
		"<h1>Session Reminder</h1><p>Hi there,</p><p>Your %s training session starts at %s UTC and runs for %d minutes.</p>",
		html.EscapeString(session.SessionType),
		session.ScheduledAt.UTC().Format(time.Kitchen),
		session.DurationMinutes,
	)
	if session.MeetingLink != nil && *session.MeetingLink != "" {
		body += fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Session</a></p>", html.EscapeString(*session.MeetingLink))
	}
	if session.Location != nil && *session.Location != "" {
		body += fmt.Sprintf("<p><b>Location:</b> %s</p>", html.EscapeString(*session.Location))
	}
	return body
}
