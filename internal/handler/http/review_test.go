package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

const reviewsPath = "/api/products/" + productID + "/reviews"

// =============================================================================
// POST /api/products/{productId}/reviews
// =============================================================================

func TestCreateReview_Created(t *testing.T) {
	s := newTestServer(t)

	s.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	s.reviews.On("ExistsForUser", mock.Anything, productID, aliceID).Return(false, nil)
	s.reviews.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Rating == 5 && r.Comment == "Great" && r.UserID == aliceID
	})).Return(true, nil)
	s.reviews.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(sampleReview(aliceID), nil)

	rec := s.do(t, http.MethodPost, reviewsPath, alice, map[string]any{"rating": 5, "comment": "Great"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got ReviewResponse
	assert.Nil(t, decode(t, rec, &got))
	assert.Equal(t, reviewID, got.ID)
	assert.True(t, got.CanEdit)
	require.NotNil(t, got.User)
	assert.Equal(t, aliceID, got.User.ID)
}

func TestCreateReview_Duplicate(t *testing.T) {
	s := newTestServer(t)

	s.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	s.reviews.On("ExistsForUser", mock.Anything, productID, aliceID).Return(true, nil)

	rec := s.do(t, http.MethodPost, reviewsPath, alice, map[string]any{"rating": 3})

	assert.Equal(t, http.StatusConflict, rec.Code)
	errResp := decode(t, rec, nil)
	require.NotNil(t, errResp)
	assert.Equal(t, apperrors.KindConflict, errResp.Kind)
	assert.Equal(t, domain.MsgDuplicateReview, errResp.Message)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	for _, rating := range []int{0, 6} {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, reviewsPath, alice, map[string]any{"rating": rating})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		errResp := decode(t, rec, nil)
		require.NotNil(t, errResp)
		assert.Equal(t, "Rating must be between 1 and 5.", errResp.Fields["rating"])
	}
}

func TestCreateReview_MissingRating(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, reviewsPath, alice, map[string]any{"comment": "no rating"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decode(t, rec, nil)
	require.NotNil(t, errResp)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
}

func TestCreateReview_RoleChecks(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Actor
		status int
	}{
		{"anonymous", domain.Actor{}, http.StatusUnauthorized},
		{"admin", admin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, http.MethodPost, reviewsPath, tt.actor, map[string]any{"rating": 4})

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

// =============================================================================
// GET /api/products/{productId}/reviews[/{id}]
// =============================================================================

func TestListReviews(t *testing.T) {
	s := newTestServer(t)

	s.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	s.reviews.On("ListByProduct", mock.Anything, productID).
		Return([]domain.Review{*sampleReview(aliceID), *sampleReview(bobID)}, nil)

	rec := s.do(t, http.MethodGet, reviewsPath, bob, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []ReviewResponse
	assert.Nil(t, decode(t, rec, &got))
	require.Len(t, got, 2)
	assert.False(t, got[0].CanEdit)
	assert.True(t, got[1].CanEdit)
}

func TestGetReview_WrongProduct(t *testing.T) {
	s := newTestServer(t)

	other := sampleReview(aliceID)
	other.ProductID = "11111111-2222-4333-8444-555555555555"
	s.reviews.On("GetByID", mock.Anything, reviewID).Return(other, nil)

	rec := s.do(t, http.MethodGet, reviewsPath+"/"+reviewID, domain.Actor{}, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReview_InvalidID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, reviewsPath+"/42", domain.Actor{}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decode(t, rec, nil)
	require.NotNil(t, errResp)
	assert.Equal(t, "INVALID_PARAMETER", errResp.Code)
}

// =============================================================================
// PUT/PATCH/DELETE /api/products/{productId}/reviews/{id}
// =============================================================================

func TestUpdateReview_OwnerPatch(t *testing.T) {
	s := newTestServer(t)

	s.reviews.On("GetByID", mock.Anything, reviewID).Return(sampleReview(aliceID), nil)
	s.reviews.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Rating == 4 && r.Comment == "Changed my mind"
	})).Return(nil)

	rec := s.do(t, http.MethodPatch, reviewsPath+"/"+reviewID, alice, map[string]any{"comment": "Changed my mind"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var got ReviewResponse
	assert.Nil(t, decode(t, rec, &got))
	assert.Equal(t, "Changed my mind", got.Comment)
}

func TestUpdateReview_PutRequiresRating(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, reviewsPath+"/"+reviewID, alice, map[string]any{"comment": "x"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decode(t, rec, nil)
	require.NotNil(t, errResp)
	assert.Contains(t, errResp.Fields, "rating")
}

func TestUpdateReview_NotOwner(t *testing.T) {
	s := newTestServer(t)

	s.reviews.On("GetByID", mock.Anything, reviewID).Return(sampleReview(aliceID), nil)

	rec := s.do(t, http.MethodPut, reviewsPath+"/"+reviewID, bob, map[string]any{"rating": 1})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	s.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReview_Owner(t *testing.T) {
	s := newTestServer(t)

	s.reviews.On("GetByID", mock.Anything, reviewID).Return(sampleReview(aliceID), nil)
	s.reviews.On("Delete", mock.Anything, reviewID).Return(nil)

	rec := s.do(t, http.MethodDelete, reviewsPath+"/"+reviewID, alice, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteReview_AnonymousBeforeLookup(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodDelete, reviewsPath+"/"+reviewID, domain.Actor{}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	s.reviews.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
