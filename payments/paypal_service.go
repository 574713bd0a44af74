package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjiri1684/pickleball_coach/utils"
	"go.uber.org/zap"
)

type payPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type PayPalGateway struct {
	apiBase    string
	currency   string
	httpClient *http.Client
	tokens     *tokenCache
	logger     *zap.Logger
}

func NewPayPalGateway(apiBase, clientID, clientSecret, currency string, logger *zap.Logger) *PayPalGateway {
	apiBase = strings.TrimRight(apiBase, "/")
	client := &http.Client{Timeout: 10 * time.Second}
	return &PayPalGateway{
		apiBase:    apiBase,
		currency:   currency,
		httpClient: client,
		tokens: &tokenCache{
			tokenURL:     apiBase + "/v1/oauth2/token",
			clientID:     clientID,
			clientSecret: clientSecret,
			httpClient:   client,
		},
		logger: logger,
	}
}

// CreatePaymentIntent creates a CAPTURE order. The approval link is what the browser needs to finish payment.
func (g *PayPalGateway) CreatePaymentIntent(ctx context.Context, amount float64, description string) (*Intent, error) {
	if amount <= 0 || utils.RoundCents(amount) != amount {
		return nil, fmt.Errorf("%w: paypal charges whole cents, got %v", ErrInvalidAmount, amount)
	}
	accessToken, err := g.tokens.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("paypal access token: %w", err)
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"description": truncate(description, 127),
				"amount": map[string]string{
					"currency_code": g.currency,
					"value":         fmt.Sprintf("%.2f", amount),
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal paypal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiBase+"/v2/checkout/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create paypal order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		g.logger.Error("paypal order rejected", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return nil, fmt.Errorf("failed to create paypal order: status %d", resp.StatusCode)
	}

	var order payPalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode paypal order: %w", err)
	}

	intent := &Intent{ID: order.ID, Amount: amount}
	for _, link := range order.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			intent.ClientSecret = link.Href
			break
		}
	}
	if intent.ClientSecret == "" {
		intent.ClientSecret = order.ID
	}
	return intent, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
