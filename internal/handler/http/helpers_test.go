package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jith101/Back-End-Developer-Assignment/internal/auth"
	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/event"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository"
	"github.com/jith101/Back-End-Developer-Assignment/internal/service"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/health"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/httputil"
)

const (
	productID = "6f1c3a52-8d0e-4b6b-9a57-0c5a8f3e2d11"
	reviewID  = "0b7e9d44-2c1f-4f8a-8e36-5d2a1c9b7f02"
	adminID   = "a3d5c6e7-1111-4a2b-9c3d-000000000001"
	aliceID   = "a3d5c6e7-2222-4a2b-9c3d-000000000002"
	bobID     = "a3d5c6e7-3333-4a2b-9c3d-000000000003"
)

var (
	admin = domain.Actor{UserID: adminID, Email: "admin@example.com", Role: domain.RoleAdmin}
	alice = domain.Actor{UserID: aliceID, Email: "alice@example.com", Role: domain.RoleRegular}
	bob   = domain.Actor{UserID: bobID, Email: "bob@example.com", Role: domain.RoleRegular}
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) CreateIfAbsent(ctx context.Context, r *domain.Review) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ExistsForUser(ctx context.Context, productID, userID string) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByProductPage(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, limit, offset)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) Update(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepo) RatingHistogram(ctx context.Context, productID string) (map[int]int, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *mockReviewRepo) RatingHistograms(ctx context.Context, ids []string) (map[string]map[int]int, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]map[int]int), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

// memoryRevocations is an in-process RevocationStore.
type memoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func (s *memoryRevocations) Revoke(_ context.Context, id string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = map[string]time.Time{}
	}
	s.ids[id] = exp
	return nil
}

func (s *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok, nil
}

// =============================================================================
// Test server
// =============================================================================

type testServer struct {
	router   http.Handler
	products *mockProductRepo
	reviews  *mockReviewRepo
	users    *mockUserRepo
	revoked  *memoryRevocations
	jwt      *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &testServer{
		products: new(mockProductRepo),
		reviews:  new(mockReviewRepo),
		users:    new(mockUserRepo),
		revoked:  &memoryRevocations{},
		jwt:      auth.NewJWTManager("handler-test-secret-0123456789abcdef", 15*time.Minute, time.Hour),
	}
	events := event.Noop{}
	s.router = NewRouter(RouterDeps{
		ProductService:  service.NewProductService(s.products, s.reviews, events, nil, logger),
		ReviewService:   service.NewReviewService(s.reviews, s.products, events, nil, logger),
		UserService:     service.NewUserService(s.users, s.jwt, s.revoked, logger),
		JWTManager:      s.jwt,
		Health:          health.NewHandler(),
		ReviewsPageSize: 5,
		Logger:          logger,
	})
	t.Cleanup(func() {
		s.products.AssertExpectations(t)
		s.reviews.AssertExpectations(t)
		s.users.AssertExpectations(t)
	})
	return s
}

// do sends a request as actor; a zero actor sends no Authorization header.
func (s *testServer) do(t *testing.T, method, path string, actor domain.Actor, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if !actor.IsAnonymous() {
		token, err := s.jwt.GenerateAccessToken(actor.UserID, actor.Email, actor.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage         `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) *httputil.ErrorResponse {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	if data != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

func sampleProduct() *domain.Product {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Product{
		ID:          productID,
		Name:        "Widget",
		Description: "A widget",
		Price:       decimal.RequireFromString("9.99"),
		CreatedBy:   strPtr(adminID),
		Creator:     &domain.UserSummary{ID: adminID, Email: admin.Email},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func strPtr(s string) *string { return &s }

func sampleReview(userID string) *domain.Review {
	now := time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC)
	return &domain.Review{
		ID:        reviewID,
		ProductID: productID,
		UserID:    userID,
		Rating:    4,
		Comment:   "Solid.",
		Author:    &domain.UserSummary{ID: userID},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
