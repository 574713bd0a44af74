package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReviewFixture() (*ReviewRequestService, *memReviews, *recordingPublisher) {
	store := newMemReviews()
	pub := &recordingPublisher{}
	svc := NewReviewRequestService(store, seedUsers(), pub, zap.NewNop())
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, store, pub
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func createOpen(t *testing.T, svc *ReviewRequestService, price float64, coachID *uint) *models.VideoReviewRequest {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), student, CreateReviewInput{
		Title:        "Backhand dink",
		VideoURL:     "https://videos.example.com/dink.mp4",
		OfferedPrice: price,
		CoachID:      coachID,
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	svc, _, pub := newReviewFixture()
	ctx := context.Background()

	req := createOpen(t, svc, 25, nil)
	assert.Equal(t, models.ReviewOpen, req.Status)
	assert.Equal(t, student.UserID, req.StudentID)
	assert.Nil(t, req.AcceptedByCoachID)
	assert.Equal(t, []events.Kind{events.ReviewRequested}, pub.kinds())

	got, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Title, got.Title)
	assert.Equal(t, req.OfferedPrice, got.OfferedPrice)
	assert.Equal(t, req.VideoURL, got.VideoURL)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateReviewInput
	}{
		{"missing title", CreateReviewInput{VideoURL: "https://v.example.com/a.mp4"}},
		{"missing video", CreateReviewInput{Title: "Serve"}},
		{"negative price", CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", OfferedPrice: -1}},
		{"sub-cent price", CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", OfferedPrice: 12.345}},
		{"price above column range", CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", OfferedPrice: 1e9}},
		{"targeted student", CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", CoachID: uintPtr(2)}},
		{"targeted inactive coach", CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", CoachID: uintPtr(8)}},
		{"targeted unknown user", CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", CoachID: uintPtr(404)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(ctx, student, tc.input)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestCreateRequestKeepsOfferedPriceExactly(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()

	for _, price := range []float64{0, 0.01, 12.34, 19.99, 99999999.99} {
		req := createOpen(t, svc, price, nil)
		got, err := svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, price, got.OfferedPrice)
	}

	_, err := svc.CreateRequest(ctx, student, CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", OfferedPrice: 12.345})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Offered price cannot have more than two decimal places", vErr.Reason)

	_, err = svc.CreateRequest(ctx, student, CreateReviewInput{Title: "Serve", VideoURL: "https://v.example.com/a.mp4", OfferedPrice: 1e9})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Offered price cannot exceed 99999999.99", vErr.Reason)
}

func TestCreateRequestRequiresStudent(t *testing.T) {
	svc, _, _ := newReviewFixture()
	_, err := svc.CreateRequest(context.Background(), coach5, CreateReviewInput{Title: "x", VideoURL: "https://v.example.com/x.mp4"})
	var fErr *ForbiddenError
	assert.ErrorAs(t, err, &fErr)

	_, err = svc.CreateRequest(context.Background(), Actor{}, CreateReviewInput{Title: "x", VideoURL: "https://v.example.com/x.mp4"})
	var uErr *UnauthorizedError
	assert.ErrorAs(t, err, &uErr)
}

func TestAcceptRequestTwice(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()
	req := createOpen(t, svc, 40, nil)

	accepted, err := svc.AcceptRequest(ctx, coach5, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedByCoachID)
	assert.Equal(t, coach5.UserID, *accepted.AcceptedByCoachID)
	assert.NotNil(t, accepted.AcceptedAt)

	_, err = svc.AcceptRequest(ctx, coach7, req.ID)
	var iErr *IllegalStateError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "Request is no longer available", iErr.Reason)

	got, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, coach5.UserID, *got.AcceptedByCoachID)
}

func TestAcceptRequestConcurrently(t *testing.T) {
	svc, _, pub := newReviewFixture()
	ctx := context.Background()
	req := createOpen(t, svc, 40, nil)

	coaches := []Actor{coach3, coach5, coach7}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []uint
		conflicts int
	)
	for i := 0; i < 12; i++ {
		actor := coaches[i%len(coaches)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AcceptRequest(ctx, actor, req.ID)
			mu.Lock()
			defer mu.Unlock()
			var iErr *IllegalStateError
			switch {
			case err == nil:
				successes = append(successes, actor.UserID)
			case errors.As(err, &iErr):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, successes, 1)
	assert.Equal(t, 11, conflicts)

	got, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, successes[0], *got.AcceptedByCoachID)

	accepts := 0
	for _, k := range pub.kinds() {
		if k == events.ReviewAccepted {
			accepts++
		}
	}
	assert.Equal(t, 1, accepts)
}

func TestAcceptTargetedRequest(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()
	req := createOpen(t, svc, 30, uintPtr(5))

	_, err := svc.AcceptRequest(ctx, coach7, req.ID)
	var iErr *IllegalStateError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "This request is for a specific coach", iErr.Reason)

	got, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewOpen, got.Status)

	accepted, err := svc.AcceptRequest(ctx, coach5, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewAccepted, accepted.Status)
}

func TestAcceptMissingRequest(t *testing.T) {
	svc, _, _ := newReviewFixture()
	_, err := svc.AcceptRequest(context.Background(), coach5, 99)
	var nErr *NotFoundError
	assert.ErrorAs(t, err, &nErr)
}

func TestCompleteReview(t *testing.T) {
	svc, _, pub := newReviewFixture()
	ctx := context.Background()
	req := createOpen(t, svc, 50, nil)

	_, err := svc.CompleteReview(ctx, coach5, req.ID, nil, nil)
	var iErr *IllegalStateError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "You are not assigned to this review", iErr.Reason)

	_, err = svc.AcceptRequest(ctx, coach5, req.ID)
	require.NoError(t, err)

	_, err = svc.CompleteReview(ctx, coach7, req.ID, nil, nil)
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "You are not assigned to this review", iErr.Reason)

	done, err := svc.CompleteReview(ctx, coach5, req.ID, strPtr("https://videos.example.com/feedback.mp4"), strPtr("Keep the paddle up"))
	require.NoError(t, err)
	assert.Equal(t, models.ReviewCompleted, done.Status)
	assert.Equal(t, "Keep the paddle up", *done.ReviewNotes)
	assert.NotNil(t, done.CompletedAt)

	_, err = svc.CompleteReview(ctx, coach5, req.ID, nil, nil)
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "Request must be in Accepted status to complete", iErr.Reason)

	assert.Equal(t, []events.Kind{events.ReviewRequested, events.ReviewAccepted, events.ReviewCompleted}, pub.kinds())
}

func TestCancelRequest(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()

	t.Run("open request", func(t *testing.T) {
		req := createOpen(t, svc, 10, nil)
		ok, err := svc.CancelRequest(ctx, student, req.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReviewCancelled, got.Status)
	})

	t.Run("someone else's request", func(t *testing.T) {
		req := createOpen(t, svc, 10, nil)
		_, err := svc.CancelRequest(ctx, otherStudent, req.ID)
		var nErr *NotFoundError
		assert.ErrorAs(t, err, &nErr)

		got, err := svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReviewOpen, got.Status)
	})

	t.Run("accepted request", func(t *testing.T) {
		req := createOpen(t, svc, 10, nil)
		_, err := svc.AcceptRequest(ctx, coach3, req.ID)
		require.NoError(t, err)

		_, err = svc.CancelRequest(ctx, student, req.ID)
		var iErr *IllegalStateError
		require.ErrorAs(t, err, &iErr)
		assert.Equal(t, "Can only cancel open requests", iErr.Reason)
	})

	t.Run("completed request", func(t *testing.T) {
		req := createOpen(t, svc, 10, nil)
		_, err := svc.AcceptRequest(ctx, coach3, req.ID)
		require.NoError(t, err)
		_, err = svc.CompleteReview(ctx, coach3, req.ID, nil, nil)
		require.NoError(t, err)

		_, err = svc.CancelRequest(ctx, student, req.ID)
		var iErr *IllegalStateError
		assert.ErrorAs(t, err, &iErr)
	})
}

func TestTerminalReviewStatesAreFinal(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()

	cancelled := createOpen(t, svc, 10, nil)
	_, err := svc.CancelRequest(ctx, student, cancelled.ID)
	require.NoError(t, err)

	completed := createOpen(t, svc, 10, nil)
	_, err = svc.AcceptRequest(ctx, coach5, completed.ID)
	require.NoError(t, err)
	_, err = svc.CompleteReview(ctx, coach5, completed.ID, nil, nil)
	require.NoError(t, err)

	for _, req := range []*models.VideoReviewRequest{cancelled, completed} {
		before, err := svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)

		_, err = svc.AcceptRequest(ctx, coach5, req.ID)
		assert.Error(t, err)
		_, err = svc.CompleteReview(ctx, coach5, req.ID, nil, nil)
		assert.Error(t, err)
		_, err = svc.CancelRequest(ctx, student, req.ID)
		assert.Error(t, err)

		after, err := svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
}

func TestListOpenForCoach(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()

	cheap := createOpen(t, svc, 10, nil)
	forMe := createOpen(t, svc, 30, uintPtr(3))
	createOpen(t, svc, 90, uintPtr(7))
	rich := createOpen(t, svc, 60, nil)
	taken := createOpen(t, svc, 80, nil)
	_, err := svc.AcceptRequest(ctx, coach5, taken.ID)
	require.NoError(t, err)

	open, err := svc.ListOpenForCoach(ctx, coach3)
	require.NoError(t, err)
	ids := make([]uint, 0, len(open))
	for _, r := range open {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint{rich.ID, forMe.ID, cheap.ID}, ids)

	global, err := svc.ListGloballyOpen(ctx)
	require.NoError(t, err)
	ids = ids[:0]
	for _, r := range global {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint{rich.ID, cheap.ID}, ids)

	_, err = svc.ListOpenForCoach(ctx, student)
	var fErr *ForbiddenError
	assert.ErrorAs(t, err, &fErr)
}

func TestListForStudentAndCoach(t *testing.T) {
	svc, _, _ := newReviewFixture()
	ctx := context.Background()

	first := createOpen(t, svc, 10, nil)
	second := createOpen(t, svc, 20, uintPtr(7))
	_, err := svc.AcceptRequest(ctx, coach5, first.ID)
	require.NoError(t, err)

	mine, err := svc.ListForStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	other, err := svc.ListForStudent(ctx, otherStudent)
	require.NoError(t, err)
	assert.Empty(t, other)

	forFive, err := svc.ListForCoach(ctx, coach5)
	require.NoError(t, err)
	require.Len(t, forFive, 1)
	assert.Equal(t, first.ID, forFive[0].ID)

	forSeven, err := svc.ListForCoach(ctx, coach7)
	require.NoError(t, err)
	require.Len(t, forSeven, 1)
	assert.Equal(t, second.ID, forSeven[0].ID)
}

func TestCanView(t *testing.T) {
	req := &models.VideoReviewRequest{StudentID: 1, CoachID: uintPtr(7), AcceptedByCoachID: uintPtr(5)}

	assert.True(t, CanView(student, req))
	assert.True(t, CanView(coach5, req))
	assert.True(t, CanView(coach7, req))
	assert.True(t, CanView(admin, req))
	assert.False(t, CanView(otherStudent, req))
	assert.False(t, CanView(coach3, req))
}
