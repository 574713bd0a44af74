package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/anjiri1684/pickleball_coach/utils"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type snapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// MidtransGateway issues Snap tokens. Amounts are whole units of the merchant currency.
type MidtransGateway struct {
	client snapCreator
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	var client snap.Client
	if production {
		client.New(serverKey, midtrans.Production)
	} else {
		client.New(serverKey, midtrans.Sandbox)
	}
	return &MidtransGateway{client: &client}
}

func (g *MidtransGateway) CreatePaymentIntent(_ context.Context, amount float64, description string) (*Intent, error) {
	if amount < 1 || amount != math.Trunc(amount) {
		return nil, fmt.Errorf("%w: midtrans charges whole currency units, got %v", ErrInvalidAmount, amount)
	}
	gross := int64(amount)
	orderID := utils.GenerateOrderReference("PAY")

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Price: gross,
				Qty:   1,
				Name:  truncate(description, 50),
			},
		},
		CustomField1: truncate(description, 40),
	}

	resp, merr := g.client.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("midtrans snap: %s", merr.Message)
	}
	return &Intent{ID: orderID, ClientSecret: resp.Token, Amount: float64(gross)}, nil
}
