package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/takuyahirata23/quick-note/internal/auth"
	"github.com/takuyahirata23/quick-note/internal/domain"
	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
	"github.com/takuyahirata23/quick-note/internal/id"
	"github.com/takuyahirata23/quick-note/internal/store"
	"github.com/takuyahirata23/quick-note/internal/validation"
)

// Messages returned by AuthService.
const (
	msgPasswordsMismatch  = "Passwords do not match"
	msgUserExists         = "User already exists"
	msgBadCredentials     = "Email or password is incorrect"
	msgSessionUserMissing = "Session user no longer exists"
)

// AuthService handles registration, login and account removal.
type AuthService struct {
	store        store.Store
	logger       *slog.Logger
	hashPassword func(string) (string, error)
}

// NewAuthService creates a new authentication service.
func NewAuthService(s store.Store, logger *slog.Logger) *AuthService {
	return &AuthService{store: s, logger: logger, hashPassword: auth.HashPassword}
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name                 string `json:"name,omitempty"`
	Email                string `json:"email,omitempty"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"passwordConfirmation,omitempty"`
}

func (r RegisterRequest) fields() map[string]string {
	return map[string]string{
		"name":                 r.Name,
		"email":                r.Email,
		"password":             r.Password,
		"passwordConfirmation": r.PasswordConfirmation,
	}
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (r LoginRequest) fields() map[string]string {
	return map[string]string{"email": r.Email, "password": r.Password}
}

// Register validates the form and creates the user. A taken email is caught by
// the unique constraint on insert rather than a prior lookup.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = domain.NormalizeEmail(req.Email)

	var extra validation.FieldErrors
	if req.Password != req.PasswordConfirmation {
		extra = validation.FieldErrors{"passwordConfirmation": msgPasswordsMismatch}
	}
	if err := validation.RegisterForm.Check(req.fields(), extra); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Name:         clean(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists(msgUserExists).WithCause(err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validation.LoginForm.Check(req.fields(), nil); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, domainerrors.InvalidCredentials(msgBadCredentials)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials(msgBadCredentials)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// CurrentUser loads the user behind a session. A session whose user was
// deleted is unauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domainerrors.Unauthorized(msgSessionUserMissing)
	}
	return user, nil
}

// DeleteAccount removes the user together with their folders and notes.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	ok, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return domainerrors.NotFound("User not found")
	}
	s.logger.Info("account deleted", "user_id", userID)
	return nil
}
