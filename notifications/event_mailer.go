package notifications

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"go.uber.org/zap"
)

const sendTimeout = 15 * time.Second

type userLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// EventMailer emails the recipients of lifecycle events.
type EventMailer struct {
	mailer Mailer
	users  userLookup
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewEventMailer(mailer Mailer, users userLookup, logger *zap.Logger) *EventMailer {
	return &EventMailer{mailer: mailer, users: users, logger: logger}
}

func (m *EventMailer) Handle(_ context.Context, event events.Event) {
	if _, _, ok := compose(event, 0); !ok {
		return
	}
	recipients := event.Recipients
	if event.Kind == events.MaterialPurchased || event.Kind == events.CoursePurchased {
		recipients = append([]uint{event.ActorID}, recipients...)
	}

	for _, userID := range recipients {
		m.wg.Add(1)
		go func(userID uint) {
			defer m.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()

			subject, body, _ := compose(event, userID)
			user, err := m.users.GetByID(ctx, userID)
			if err != nil {
				m.logger.Warn("email recipient lookup failed", zap.Uint("user_id", userID), zap.Error(err))
				return
			}
			if err := m.mailer.Send(ctx, user.Email, user.FullName, subject, body); err != nil {
				m.logger.Error("failed to send email", zap.String("to", user.Email), zap.String("kind", string(event.Kind)), zap.Error(err))
			}
		}(userID)
	}
}

// Wait blocks until queued emails are sent.
func (m *EventMailer) Wait() {
	m.wg.Wait()
}

// compose picks the message for one recipient. Buyers and sellers of a purchase get different emails.
func compose(event events.Event, recipientID uint) (subject, body string, ok bool) {
	title := ""
	if payload, isMap := event.Payload.(map[string]interface{}); isMap {
		title, _ = payload["title"].(string)
	}
	title = html.EscapeString(title)

	switch event.Kind {
	case events.ReviewRequested:
		return "A student asked you for a video review",
			fmt.Sprintf("<h1>New review request</h1><p>%s is waiting for your feedback. Offered price: %.2f.</p>", title, event.Amount), true
	case events.ReviewAccepted:
		return "Your video review was accepted",
			fmt.Sprintf("<h1>Review accepted</h1><p>A coach has picked up <b>%s</b> and is working on it.</p>", title), true
	case events.ReviewCompleted:
		return "Your video review is ready",
			fmt.Sprintf("<h1>Review completed</h1><p>Feedback for <b>%s</b> is now available.</p>", title), true
	case events.ReviewCancelled:
		return "A review request was withdrawn",
			fmt.Sprintf("<p>The student withdrew <b>%s</b>.</p>", title), true
	case events.SessionRequested:
		return "New training session request",
			"<h1>Session request</h1><p>A student has requested a training session. Confirm it from your dashboard.</p>", true
	case events.SessionConfirmed, events.SessionScheduled:
		return "Your training session is confirmed",
			"<h1>Session confirmed</h1><p>Your training session is on the calendar. Check the app for the meeting details.</p>", true
	case events.SessionCancelled:
		return "A training session was cancelled",
			"<p>One of your training sessions was cancelled.</p>", true
	case events.MaterialPurchased, events.CoursePurchased:
		if recipientID != event.ActorID {
			return "You made a sale",
				fmt.Sprintf("<h1>New sale</h1><p>A student bought <b>%s</b> for %.2f.</p>", title, event.Amount), true
		}
		return "Purchase confirmation",
			fmt.Sprintf("<h1>Thanks for your purchase</h1><p><b>%s</b> for %.2f.</p>", title, event.Amount), true
	}
	return "", "", false
}
