package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jith101/Back-End-Developer-Assignment/internal/auth"
	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/policy"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/validator"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

const msgInvalidRefresh = "Invalid or expired refresh token"

// UserService implements registration, authentication and profile operations.
type UserService struct {
	users      repository.UserRepository
	jwtManager *auth.JWTManager
	revoked    auth.RevocationStore
	hashCost   int
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	jwtManager *auth.JWTManager,
	revoked auth.RevocationStore,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		jwtManager: jwtManager,
		revoked:    revoked,
		hashCost:   bcryptCost,
		logger:     logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the editable profile fields. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// CreateAdminInput holds the parameters for creating an admin account.
type CreateAdminInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Password2 string
}

// --- Auth Operations ---

// Register creates a regular account and returns it with a fresh token pair.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	user, err := s.createUser(ctx, newAccount{
		email:     input.Email,
		firstName: input.FirstName,
		lastName:  input.LastName,
		password:  input.Password,
		password2: input.Password2,
		role:      domain.RoleRegular,
	})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
	)

	return user, tokens, nil
}

// CreateAdmin creates an admin account. It backs the operator command and is
// not reachable over HTTP.
func (s *UserService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*domain.User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.FirstName) == "" {
		fields["first_name"] = "This field may not be blank."
	}
	if strings.TrimSpace(input.LastName) == "" {
		fields["last_name"] = "This field may not be blank."
	}
	if len(fields) > 0 {
		return nil, apperrors.InvalidFields(fields)
	}

	user, err := s.createUser(ctx, newAccount{
		email:     input.Email,
		firstName: input.FirstName,
		lastName:  input.LastName,
		password:  input.Password,
		password2: input.Password2,
		role:      domain.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin user created",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Login authenticates a user with email and password, returning tokens.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "This field is required."
	}
	if input.Password == "" {
		fields["password"] = "This field is required."
	}
	if len(fields) > 0 {
		return nil, nil, apperrors.InvalidFields(fields)
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, apperrors.Unauthorized("No active account found with the given credentials")
		}
		return nil, nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("No active account found with the given credentials")
	}

	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized("No active account found with the given credentials")
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return user, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The presented
// token is revoked so it can be used only once.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidField("refresh", "This field is required.")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Token is invalid or expired")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revoked token: %w", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("Token is blacklisted")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("get user for token refresh: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("User is inactive")
	}

	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID),
	)

	return tokens, nil
}

// Logout revokes the actor's refresh token.
func (s *UserService) Logout(ctx context.Context, actor domain.Actor, refreshToken string) error {
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	if refreshToken == "" {
		return apperrors.InvalidField("refresh", "This field is required.")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil || claims.UserID != actor.UserID {
		return apperrors.InvalidInput(msgInvalidRefresh)
	}

	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", actor.UserID),
	)

	return nil
}

// --- Profile Operations ---

// GetProfile returns the actor's own account.
func (s *UserService) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the actor's email and names. Role, activity and join
// date are not editable.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, input UpdateProfileInput) (*domain.User, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if msg := emailMessage(email); msg != "" {
			return nil, apperrors.InvalidField("email", msg)
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// --- Helpers ---

type newAccount struct {
	email, firstName, lastName string
	password, password2        string
	role                       string
}

func (s *UserService) createUser(ctx context.Context, in newAccount) (*domain.User, error) {
	email := domain.NormalizeEmail(in.email)

	fields := map[string]string{}
	if msg := emailMessage(email); msg != "" {
		fields["email"] = msg
	}
	if in.password != in.password2 {
		fields["password"] = "Password fields didn't match."
	} else if msg := passwordMessage(in.password); msg != "" {
		fields["password"] = msg
	}
	if len(fields) > 0 {
		return nil, apperrors.InvalidFields(fields)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict(domain.MsgDuplicateEmail)
	} else if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.firstName),
		LastName:     strings.TrimSpace(in.lastName),
		Role:         in.role,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *UserService) generateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func emailMessage(email string) string {
	if email == "" {
		return "This field may not be blank."
	}
	if err := validator.Var(email, "email"); err != nil {
		return "Enter a valid email address."
	}
	return ""
}

// passwordMessage applies the minimum length and not-entirely-numeric rules.
func passwordMessage(password string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength)
	}
	numeric := true
	for _, ch := range password {
		if !unicode.IsDigit(ch) {
			numeric = false
			break
		}
	}
	if numeric {
		return "This password is entirely numeric."
	}
	return ""
}
