package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	endpoint    string
	httpClient  *http.Client
	logger      *zap.Logger
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// NewBrevoService returns nil when the sender is not fully configured; callers fall back to NopMailer.
func NewBrevoService(apiKey, senderEmail, senderName string, logger *zap.Logger) *BrevoService {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		logger.Warn("email service not configured, missing API key, sender email or sender name")
		return nil
	}
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		endpoint:    brevoEndpoint,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

func (s *BrevoService) Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	s.logger.Debug("email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

// NopMailer logs instead of sending. It is used when Brevo is not configured.
type NopMailer struct {
	Logger *zap.Logger
}

func (m NopMailer) Send(_ context.Context, toEmail, _, subject, _ string) error {
	m.Logger.Info("email skipped, no mailer configured", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}
