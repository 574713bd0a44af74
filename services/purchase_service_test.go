package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type purchaseFixture struct {
	svc       *PurchaseService
	catalog   *memCatalog
	purchases *memPurchases
	gateway   *stubGateway
	pub       *recordingPublisher
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		catalog:   newMemCatalog(),
		purchases: &memPurchases{},
		gateway:   &stubGateway{},
		pub:       &recordingPublisher{},
	}
	f.svc = NewPurchaseService(f.purchases, f.catalog, f.gateway, FeeSplit{PlatformRate: 0.15}, f.pub, zap.NewNop())
	return f
}

func (f *purchaseFixture) material(t *testing.T, price float64, published bool) *models.TrainingMaterial {
	t.Helper()
	m := &models.TrainingMaterial{CoachID: 5, Title: "Third shot drop drills", Price: price, IsPublished: published}
	require.NoError(t, f.catalog.CreateMaterial(context.Background(), m))
	return m
}

func TestFeeSplit(t *testing.T) {
	split := FeeSplit{PlatformRate: 0.15}
	cases := []struct {
		price, fee, earnings float64
	}{
		{100, 15, 85},
		{19.99, 3, 16.99},
		{0.01, 0, 0.01},
		{49.95, 7.49, 42.46},
		{1234.56, 185.18, 1049.38},
	}
	for _, tc := range cases {
		fee, earnings := split.Split(tc.price)
		assert.InDelta(t, tc.fee, fee, 1e-9, "fee for %v", tc.price)
		assert.InDelta(t, tc.earnings, earnings, 1e-9, "earnings for %v", tc.price)
		assert.InDelta(t, tc.price, fee+earnings, 1e-9, "sum for %v", tc.price)
	}
}

func TestPurchaseMaterial(t *testing.T) {
	f := newPurchaseFixture()
	f.gateway.nextIntents = []string{"pay_123"}
	m := f.material(t, 100, true)

	checkout, err := f.svc.PurchaseMaterial(context.Background(), student, m.ID)
	require.NoError(t, err)

	p := checkout.Purchase
	assert.Equal(t, 100.0, p.PurchasePrice)
	assert.Equal(t, 15.0, p.PlatformFee)
	assert.Equal(t, 85.0, p.CoachEarnings)
	assert.Equal(t, uint(5), p.CoachID)
	assert.Equal(t, student.UserID, p.StudentID)
	assert.Equal(t, "pay_123", p.ExternalPaymentRef)
	assert.Equal(t, "pay_123", checkout.Payment.PaymentRef)
	assert.Equal(t, "secret_pay_123", checkout.Payment.ClientSecret)
	assert.Equal(t, 100.0, checkout.Payment.Amount)

	assert.Equal(t, 1, f.gateway.calls)
	assert.Equal(t, 100.0, f.gateway.lastAmount)
	assert.Contains(t, f.gateway.lastDesc, m.Title)

	require.Len(t, f.purchases.materials, 1)
	require.Len(t, f.pub.events, 1)
	event := f.pub.events[0]
	assert.Equal(t, events.MaterialPurchased, event.Kind)
	assert.Equal(t, p.ID.String(), event.EntityID)
	assert.Equal(t, []uint{5}, event.Recipients)
	assert.Equal(t, 100.0, event.Amount)
}

func TestPurchaseSnapshotsPrice(t *testing.T) {
	f := newPurchaseFixture()
	m := f.material(t, 40, true)

	checkout, err := f.svc.PurchaseMaterial(context.Background(), student, m.ID)
	require.NoError(t, err)

	m.Price = 80
	require.NoError(t, f.catalog.SaveMaterial(context.Background(), m))

	list, err := f.svc.ListForStudent(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, list.Materials, 1)
	assert.Equal(t, checkout.Purchase.ID, list.Materials[0].ID)
	assert.Equal(t, 40.0, list.Materials[0].PurchasePrice)
}

func TestPurchaseMaterialRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		f := newPurchaseFixture()
		_, err := f.svc.PurchaseMaterial(ctx, student, 42)
		var nErr *NotFoundError
		assert.ErrorAs(t, err, &nErr)
		assert.Zero(t, f.gateway.calls)
	})

	t.Run("unpublished", func(t *testing.T) {
		f := newPurchaseFixture()
		m := f.material(t, 20, false)
		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		var nErr *NotFoundError
		assert.ErrorAs(t, err, &nErr)
		assert.Zero(t, f.gateway.calls)
		assert.Empty(t, f.purchases.materials)
	})

	t.Run("zero price", func(t *testing.T) {
		f := newPurchaseFixture()
		m := f.material(t, 0, true)
		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Zero(t, f.gateway.calls)
	})

	t.Run("coach buyer", func(t *testing.T) {
		f := newPurchaseFixture()
		m := f.material(t, 20, true)
		_, err := f.svc.PurchaseMaterial(ctx, coach7, m.ID)
		var fErr *ForbiddenError
		assert.ErrorAs(t, err, &fErr)
	})

	t.Run("gateway failure", func(t *testing.T) {
		f := newPurchaseFixture()
		gatewayErr := errors.New("gateway unavailable")
		f.gateway.err = gatewayErr
		m := f.material(t, 20, true)

		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, gatewayErr)
		assert.Empty(t, f.purchases.materials)
		assert.Empty(t, f.pub.events)
	})

	t.Run("amount the gateway cannot charge", func(t *testing.T) {
		f := newPurchaseFixture()
		f.gateway.err = fmt.Errorf("%w: midtrans charges whole currency units, got 19.99", payments.ErrInvalidAmount)
		m := f.material(t, 19.99, true)

		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "The payment provider cannot charge a price of 19.99", vErr.Reason)
		assert.Empty(t, f.purchases.materials)
		assert.Empty(t, f.pub.events)
	})

	t.Run("gateway charges a different amount", func(t *testing.T) {
		f := newPurchaseFixture()
		f.gateway.chargeOverride = 20
		m := f.material(t, 19.99, true)

		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		require.Error(t, err)
		var vErr *ValidationError
		assert.False(t, errors.As(err, &vErr))
		assert.Empty(t, f.purchases.materials)
		assert.Empty(t, f.pub.events)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newPurchaseFixture()
		f.purchases.err = errors.New("disk full")
		m := f.material(t, 20, true)

		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		assert.EqualError(t, err, "disk full")
		assert.Empty(t, f.pub.events)
	})
}

func TestPurchaseCourse(t *testing.T) {
	f := newPurchaseFixture()
	ctx := context.Background()
	m := f.material(t, 10, true)
	course := &models.Course{CoachID: 7, Title: "Kitchen mastery", Price: 250, IsPublished: true}
	require.NoError(t, f.catalog.CreateCourse(ctx, course, []uint{m.ID}))

	checkout, err := f.svc.PurchaseCourse(ctx, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 37.5, checkout.Purchase.PlatformFee)
	assert.Equal(t, 212.5, checkout.Purchase.CoachEarnings)
	assert.Equal(t, uint(7), checkout.Purchase.CoachID)
	assert.Equal(t, events.CoursePurchased, f.pub.events[0].Kind)

	hidden := &models.Course{CoachID: 7, Title: "Draft", Price: 10}
	require.NoError(t, f.catalog.CreateCourse(ctx, hidden, nil))
	_, err = f.svc.PurchaseCourse(ctx, student, hidden.ID)
	var nErr *NotFoundError
	assert.ErrorAs(t, err, &nErr)
}

func TestCoachEarnings(t *testing.T) {
	f := newPurchaseFixture()
	ctx := context.Background()
	m := f.material(t, 19.99, true)

	for i := 0; i < 3; i++ {
		_, err := f.svc.PurchaseMaterial(ctx, student, m.ID)
		require.NoError(t, err)
	}

	total, err := f.svc.CoachEarnings(ctx, coach5)
	require.NoError(t, err)
	assert.Equal(t, 50.97, total)

	none, err := f.svc.CoachEarnings(ctx, coach7)
	require.NoError(t, err)
	assert.Zero(t, none)

	_, err = f.svc.CoachEarnings(ctx, student)
	var fErr *ForbiddenError
	assert.ErrorAs(t, err, &fErr)
}
