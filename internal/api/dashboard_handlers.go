package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/takuyahirata23/quick-note/internal/auth"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Dashboard",
		Description: "Returns the current user, their folders and the All Notes folder",
		Tags:        []string{"Dashboard"},
		Middlewares: huma.Middlewares{requireSession},
	}, s.handleGetDashboard)
}

// FlashInput reads the flash cookie and the status query set by the action
// that redirected here.
type FlashInput struct {
	Flash  string `cookie:"QN_flash"`
	Status string `query:"status"`
}

// DashboardResponse is the dashboard payload.
type DashboardResponse struct {
	User     UserView     `json:"user"`
	AllNotes FolderView   `json:"allNotes"`
	Folders  []FolderView `json:"folders"`
	FlashView
}

// DashboardOutput wraps the dashboard for Huma.
type DashboardOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      DashboardResponse
}

func (s *Server) handleGetDashboard(ctx context.Context, input *FlashInput) (*DashboardOutput, error) {
	userID := mustUserID(ctx)

	user, err := s.services.Auth.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview, err := s.services.Folders.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}

	folders := make([]FolderView, 0, len(overview.Folders))
	for _, f := range overview.Folders {
		folders = append(folders, toFolderView(f))
	}

	out := &DashboardOutput{
		Body: DashboardResponse{
			User:     toUserView(user),
			AllNotes: allNotesView(overview.AllNotesCount),
			Folders:  folders,
		},
	}
	out.Body.FlashView, out.SetCookie = s.consumeFlash(input)
	return out, nil
}

// consumeFlash returns the pending flash message, if any, and the cookie that
// clears it.
func (s *Server) consumeFlash(input *FlashInput) (FlashView, []http.Cookie) {
	if input.Flash == "" {
		return FlashView{}, nil
	}
	cookies := []*http.Cookie{{Name: auth.FlashCookieName, Value: input.Flash}}
	expired := *s.sessions.ClearFlash()

	message := s.sessions.ReadFlash(cookies)
	if message == "" {
		return FlashView{}, []http.Cookie{expired}
	}
	return FlashView{Message: message, Variant: flashVariant(input.Status)}, []http.Cookie{expired}
}
