package payments

import (
	"context"
	"errors"
)

// Intent is a payment handle the client completes out of band.
// Amount is exactly what the gateway will charge.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       float64
}

type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount float64, description string) (*Intent, error)
}

// ErrInvalidAmount is returned, possibly wrapped, for amounts a gateway cannot charge exactly.
var ErrInvalidAmount = errors.New("payment amount must be positive")
