package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/takuyahirata23/quick-note/internal/metrics"
	"github.com/takuyahirata23/quick-note/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Register",
		Description:   "Creates an account and starts a session",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID:   "login",
		Method:        http.MethodPost,
		Path:          "/login",
		Summary:       "Login",
		Description:   "Checks credentials and starts a session",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/logout",
		Summary:       "Logout",
		Description:   "Expires the session cookie",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteAccount",
		Method:        http.MethodDelete,
		Path:          "/account",
		Summary:       "Delete account",
		Description:   "Deletes the current user with all folders and notes",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleDeleteAccount)
}

// RegisterInput contains the registration form.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput contains the login form.
type LoginInput struct {
	Body service.LoginRequest
}

// RedirectOutput is returned by every action: a 303 to Location, optionally
// setting cookies.
type RedirectOutput struct {
	Location  string        `header:"Location"`
	SetCookie []http.Cookie `header:"Set-Cookie"`
}

func redirect(location string, cookies ...*http.Cookie) *RedirectOutput {
	out := &RedirectOutput{Location: location}
	for _, c := range cookies {
		if c != nil {
			out.SetCookie = append(out.SetCookie, *c)
		}
	}
	return out
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RedirectOutput, error) {
	user, err := s.services.Auth.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return s.startSession(user.ID)
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*RedirectOutput, error) {
	user, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return s.startSession(user.ID)
}

func (s *Server) startSession(userID string) (*RedirectOutput, error) {
	cookie, err := s.sessions.StartUserSession(userID)
	if err != nil {
		return nil, err
	}
	metrics.ObserveSession(metrics.SessionStarted)
	return redirect("/dashboard", cookie), nil
}

func (s *Server) handleLogout(_ context.Context, _ *struct{}) (*RedirectOutput, error) {
	metrics.ObserveSession(metrics.SessionEnded)
	return redirect("/login", s.sessions.EndUserSession()), nil
}

func (s *Server) handleDeleteAccount(ctx context.Context, _ *struct{}) (*RedirectOutput, error) {
	if err := s.services.Auth.DeleteAccount(ctx, mustUserID(ctx)); err != nil {
		return nil, err
	}
	metrics.ObserveSession(metrics.SessionEnded)
	return redirect("/register", s.sessions.EndUserSession()), nil
}
