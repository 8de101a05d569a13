package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

type reviewFixture struct {
	svc      *ReviewService
	reviews  *mockReviewRepository
	products *mockProductRepository
	events   *mockEvents
}

func newReviewFixture(t *testing.T, metrics *Metrics) *reviewFixture {
	t.Helper()
	f := &reviewFixture{
		reviews:  new(mockReviewRepository),
		products: new(mockProductRepository),
		events:   new(mockEvents),
	}
	f.svc = NewReviewService(f.reviews, f.products, f.events, metrics, newTestLogger())
	t.Cleanup(func() {
		f.reviews.AssertExpectations(t)
		f.products.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})
	return f
}

func aliceReview() *domain.Review {
	return &domain.Review{
		ID:        "r-1",
		ProductID: "p-1",
		UserID:    alice.UserID,
		Rating:    4,
		Comment:   "Solid.",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

// --- CreateReview ---

func TestCreateReview_Success(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	f := newReviewFixture(t, metrics)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "p-1").Return(widget("p-1"), nil)
	f.reviews.On("ExistsForUser", ctx, "p-1", alice.UserID).Return(false, nil)
	f.reviews.On("CreateIfAbsent", ctx, mock.MatchedBy(func(r *domain.Review) bool {
		return r.ProductID == "p-1" && r.UserID == alice.UserID && r.Rating == 5 && r.ID != ""
	})).Return(true, nil)
	f.reviews.On("GetByID", ctx, mock.AnythingOfType("string")).
		Return(func(_ context.Context, id string) *domain.Review {
			r := aliceReview()
			r.ID = id
			r.Rating = 5
			r.Author = &domain.UserSummary{ID: alice.UserID, Email: alice.Email}
			return r
		}, nil)
	f.events.On("PublishReviewCreated", ctx, alice, mock.Anything).Return(nil)

	got, err := f.svc.CreateReview(ctx, alice, "p-1", &CreateReviewInput{Rating: 5, Comment: "Great"})

	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	require.NotNil(t, got.Author)
	assert.Equal(t, alice.Email, got.Author.Email)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.reviews.WithLabelValues(outcomeCreated)))
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		f := newReviewFixture(t, nil)

		_, err := f.svc.CreateReview(context.Background(), alice, "p-1", &CreateReviewInput{Rating: rating})

		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "Rating must be between 1 and 5.", appErr.Fields["rating"])
		f.reviews.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	}
}

func TestCreateReview_Permissions(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.Actor
		kind  string
	}{
		{"anonymous", anonymous, apperrors.KindUnauthorized},
		{"admin", admin, apperrors.KindPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t, nil)

			_, err := f.svc.CreateReview(context.Background(), tt.actor, "p-1", &CreateReviewInput{Rating: 3})

			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}
}

func TestCreateReview_ProductMissing(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := f.svc.CreateReview(ctx, alice, "missing", &CreateReviewInput{Rating: 3})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateReview_ExistingReviewConflicts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	f := newReviewFixture(t, metrics)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "p-1").Return(widget("p-1"), nil)
	f.reviews.On("ExistsForUser", ctx, "p-1", alice.UserID).Return(true, nil)

	_, err := f.svc.CreateReview(ctx, alice, "p-1", &CreateReviewInput{Rating: 2})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Contains(t, err.Error(), domain.MsgDuplicateReview)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.reviews.WithLabelValues(outcomeConflict)))
}

func TestCreateReview_LostRaceConflicts(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "p-1").Return(widget("p-1"), nil)
	f.reviews.On("ExistsForUser", ctx, "p-1", alice.UserID).Return(false, nil)
	f.reviews.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)

	_, err := f.svc.CreateReview(ctx, alice, "p-1", &CreateReviewInput{Rating: 2})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateReview_PublishFailureDoesNotFail(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "p-1").Return(widget("p-1"), nil)
	f.reviews.On("ExistsForUser", ctx, "p-1", alice.UserID).Return(false, nil)
	f.reviews.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)
	f.reviews.On("GetByID", ctx, mock.AnythingOfType("string")).Return(aliceReview(), nil)
	f.events.On("PublishReviewCreated", ctx, alice, mock.Anything).Return(errors.New("broker down"))

	got, err := f.svc.CreateReview(ctx, alice, "p-1", &CreateReviewInput{Rating: 4})

	require.NoError(t, err)
	assert.Equal(t, "r-1", got.ID)
}

// --- ListReviews / GetReview ---

func TestListReviews(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "p-1").Return(widget("p-1"), nil)
	f.reviews.On("ListByProduct", ctx, "p-1").Return([]domain.Review{*aliceReview()}, nil)

	got, err := f.svc.ListReviews(ctx, "p-1")

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListReviews_ProductMissing(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.products.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := f.svc.ListReviews(ctx, "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	f.reviews.AssertNotCalled(t, "ListByProduct", mock.Anything, mock.Anything)
}

func TestGetReview_UnderOtherProduct(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.reviews.On("GetByID", ctx, "r-1").Return(aliceReview(), nil)

	_, err := f.svc.GetReview(ctx, "p-other", "r-1")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// --- UpdateReview ---

func TestUpdateReview_Owner(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.reviews.On("GetByID", ctx, "r-1").Return(aliceReview(), nil)
	f.reviews.On("Update", ctx, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Rating == 2 && r.Comment == "Solid."
	})).Return(nil)
	f.events.On("PublishReviewUpdated", ctx, alice, mock.Anything).Return(nil)

	got, err := f.svc.UpdateReview(ctx, alice, "p-1", "r-1", &UpdateReviewInput{Rating: intPtr(2)})

	require.NoError(t, err)
	assert.Equal(t, 2, got.Rating)
}

func TestUpdateReview_Denied(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Actor
		kind   string
		lookup bool
	}{
		{"anonymous before lookup", anonymous, apperrors.KindUnauthorized, false},
		{"other regular user", bob, apperrors.KindPermission, true},
		{"admin", admin, apperrors.KindPermission, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t, nil)
			ctx := context.Background()
			if tt.lookup {
				f.reviews.On("GetByID", ctx, "r-1").Return(aliceReview(), nil)
			}

			_, err := f.svc.UpdateReview(ctx, tt.actor, "p-1", "r-1", &UpdateReviewInput{Comment: strPtr("edited")})

			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
			f.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateReview_InvalidRating(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.reviews.On("GetByID", ctx, "r-1").Return(aliceReview(), nil)

	_, err := f.svc.UpdateReview(ctx, alice, "p-1", "r-1", &UpdateReviewInput{Rating: intPtr(6)})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

// --- DeleteReview ---

func TestDeleteReview_Owner(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.reviews.On("GetByID", ctx, "r-1").Return(aliceReview(), nil)
	f.reviews.On("Delete", ctx, "r-1").Return(nil)
	f.events.On("PublishReviewDeleted", ctx, alice, mock.Anything).Return(nil)

	require.NoError(t, f.svc.DeleteReview(ctx, alice, "p-1", "r-1"))
}

func TestDeleteReview_OtherUserForbidden(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.reviews.On("GetByID", ctx, "r-1").Return(aliceReview(), nil)

	err := f.svc.DeleteReview(ctx, bob, "p-1", "r-1")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindPermission, apperrors.KindOf(err))
	f.reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteReview_Missing(t *testing.T) {
	f := newReviewFixture(t, nil)
	ctx := context.Background()

	f.reviews.On("GetByID", ctx, "gone").Return(nil, apperrors.NotFound("review", "gone"))

	err := f.svc.DeleteReview(ctx, alice, "p-1", "gone")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
