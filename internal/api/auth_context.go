package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/takuyahirata23/quick-note/internal/metrics"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userIDKey is the context key for the authenticated user ID.
const userIDKey ctxKey = "userID"

// GetUserID returns the authenticated user ID from context, if any.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// setUserID stores the user ID in context.
func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// sessionMiddleware resolves the session cookie once per request. Requests
// without a valid session continue anonymously; operations that need a user
// are guarded by requireSession.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.sessions.GetUserID(r.Cookies())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(setUserID(r.Context(), userID)))
	})
}

// requireSession is a huma operation middleware. Anonymous requests are
// answered with 303 See Other to /login and never reach the handler.
func requireSession(ctx huma.Context, next func(huma.Context)) {
	if _, ok := GetUserID(ctx.Context()); !ok {
		metrics.ObserveSession(metrics.SessionDenied)
		ctx.SetHeader("Location", "/login")
		ctx.SetStatus(http.StatusSeeOther)
		return
	}
	next(ctx)
}

// mustUserID returns the user ID placed in context by sessionMiddleware.
// Only call it from operations guarded by requireSession.
func mustUserID(ctx context.Context) string {
	userID, _ := GetUserID(ctx)
	return userID
}
