package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPayPalServer(t *testing.T, tokenCalls *int32, orderStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		var body map[string]interface{}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "CAPTURE", body["intent"])
		units := body["purchase_units"].([]interface{})
		amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
		assert.Equal(t, "USD", amount["currency_code"])
		assert.Equal(t, "19.90", amount["value"])

		w.WriteHeader(orderStatus)
		_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"CREATED","links":[{"href":"https://paypal.example/approve/ORDER-1","rel":"approve"}]}`))
	})
	return httptest.NewServer(mux)
}

func TestPayPalCreatePaymentIntent(t *testing.T) {
	var tokenCalls int32
	srv := newPayPalServer(t, &tokenCalls, http.StatusCreated)
	defer srv.Close()

	gw := NewPayPalGateway(srv.URL+"/", "client", "secret", "USD", zap.NewNop())
	intent, err := gw.CreatePaymentIntent(context.Background(), 19.9, "Course: Kitchen mastery")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", intent.ID)
	assert.Equal(t, "https://paypal.example/approve/ORDER-1", intent.ClientSecret)
	assert.Equal(t, 19.9, intent.Amount)

	_, err = gw.CreatePaymentIntent(context.Background(), 19.9, "again")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "token is cached between orders")
}

func TestPayPalRejectedOrder(t *testing.T) {
	var tokenCalls int32
	srv := newPayPalServer(t, &tokenCalls, http.StatusUnprocessableEntity)
	defer srv.Close()

	gw := NewPayPalGateway(srv.URL, "client", "secret", "USD", zap.NewNop())
	_, err := gw.CreatePaymentIntent(context.Background(), 19.9, "x")
	assert.EqualError(t, err, "failed to create paypal order: status 422")
}

func TestPayPalInvalidAmount(t *testing.T) {
	gw := NewPayPalGateway("http://127.0.0.1:1", "client", "secret", "USD", zap.NewNop())
	_, err := gw.CreatePaymentIntent(context.Background(), 0, "free")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = gw.CreatePaymentIntent(context.Background(), 12.345, "fractional cents")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

type fakeSnap struct {
	last *snap.Request
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "snap-token"}, nil
}

func TestMidtransCreatePaymentIntent(t *testing.T) {
	client := &fakeSnap{}
	gw := &MidtransGateway{client: client}

	intent, err := gw.CreatePaymentIntent(context.Background(), 150000, "Training material: Serve clinic for advanced players who like long names")
	require.NoError(t, err)
	assert.Equal(t, "snap-token", intent.ClientSecret)
	assert.Equal(t, client.last.TransactionDetails.OrderID, intent.ID)
	assert.Equal(t, int64(150000), client.last.TransactionDetails.GrossAmt)
	assert.Equal(t, 150000.0, intent.Amount)
	items := *client.last.Items
	require.Len(t, items, 1)
	assert.Equal(t, int64(150000), items[0].Price)
	assert.LessOrEqual(t, len(items[0].Name), 50)
}

func TestMidtransRejectsAmountsItCannotChargeExactly(t *testing.T) {
	for _, amount := range []float64{19.99, 0.4, 0, -5} {
		client := &fakeSnap{}
		gw := &MidtransGateway{client: client}

		_, err := gw.CreatePaymentIntent(context.Background(), amount, "x")
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
		assert.Nil(t, client.last, "amount %v must not reach snap", amount)
	}
}

func TestMidtransSnapError(t *testing.T) {
	client := &fakeSnap{}
	gw := &MidtransGateway{client: client}

	client.err = &midtrans.Error{Message: "server key invalid"}
	_, err := gw.CreatePaymentIntent(context.Background(), 10, "x")
	assert.EqualError(t, err, "midtrans snap: server key invalid")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))

	cut := truncate("Dink drills für Anfänger", 18)
	assert.Equal(t, "Dink drills für An", cut)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "ééé", truncate("éééé", 3))
}
