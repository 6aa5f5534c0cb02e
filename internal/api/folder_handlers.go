package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/takuyahirata23/quick-note/internal/domain"
	"github.com/takuyahirata23/quick-note/internal/service"
)

const msgFolderDeleted = "Folder deleted"

func (s *Server) registerFolderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createFolder",
		Method:        http.MethodPost,
		Path:          "/folders",
		Summary:       "Create folder",
		Tags:          []string{"Folders"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleCreateFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFolder",
		Method:      http.MethodGet,
		Path:        "/folders/{folderId}",
		Summary:     "Get folder",
		Description: "Returns a folder with its notes split by pin state. The id \"all\" selects every note.",
		Tags:        []string{"Folders"},
		Middlewares: huma.Middlewares{requireSession},
	}, s.handleGetFolder)

	huma.Register(s.api, huma.Operation{
		OperationID:   "renameFolder",
		Method:        http.MethodPut,
		Path:          "/folders/{folderId}",
		Summary:       "Rename folder",
		Tags:          []string{"Folders"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleRenameFolder)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteFolder",
		Method:        http.MethodDelete,
		Path:          "/folders/{folderId}",
		Summary:       "Delete folder",
		Description:   "Deletes a folder and every note in it",
		Tags:          []string{"Folders"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleDeleteFolder)
}

// CreateFolderInput contains the new folder form.
type CreateFolderInput struct {
	Body service.FolderRequest
}

// GetFolderInput selects a folder. Flash fields are set after a note delete.
type GetFolderInput struct {
	FolderID string `path:"folderId" doc:"Folder ID or \"all\""`
	FlashInput
}

// FolderResponse is a folder with its notes.
type FolderResponse struct {
	Folder FolderView `json:"folder"`
	Notes  NotesView  `json:"notes"`
	FlashView
}

// FolderOutput wraps the folder payload for Huma.
type FolderOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      FolderResponse
}

// RenameFolderInput contains the rename form.
type RenameFolderInput struct {
	FolderID string `path:"folderId"`
	Body     service.FolderRequest
}

// FolderIDInput identifies a folder.
type FolderIDInput struct {
	FolderID string `path:"folderId"`
}

func (s *Server) handleCreateFolder(ctx context.Context, input *CreateFolderInput) (*RedirectOutput, error) {
	if _, err := s.services.Folders.Create(ctx, mustUserID(ctx), input.Body); err != nil {
		return nil, err
	}
	return redirect("/dashboard"), nil
}

func (s *Server) handleGetFolder(ctx context.Context, input *GetFolderInput) (*FolderOutput, error) {
	scope := domain.ParseFolderScope(input.FolderID)

	fwn, err := s.services.Folders.Get(ctx, mustUserID(ctx), scope)
	if err != nil {
		return nil, err
	}

	out := &FolderOutput{
		Body: FolderResponse{
			Folder: toFolderView(fwn.Folder),
			Notes:  toNotesView(fwn.Notes),
		},
	}
	out.Body.FlashView, out.SetCookie = s.consumeFlash(&input.FlashInput)
	return out, nil
}

func (s *Server) handleRenameFolder(ctx context.Context, input *RenameFolderInput) (*RedirectOutput, error) {
	if err := s.services.Folders.Rename(ctx, mustUserID(ctx), input.FolderID, input.Body); err != nil {
		return nil, err
	}
	return redirect(folderPath(domain.FolderScopeOf(input.FolderID))), nil
}

func (s *Server) handleDeleteFolder(ctx context.Context, input *FolderIDInput) (*RedirectOutput, error) {
	if err := s.services.Folders.Delete(ctx, mustUserID(ctx), input.FolderID); err != nil {
		return nil, err
	}

	flash, err := s.sessions.SetFlash(msgFolderDeleted)
	if err != nil {
		return nil, err
	}
	return redirect("/dashboard?status=success", flash), nil
}

// folderPath is the folder page a scope redirects to.
func folderPath(scope domain.FolderScope) string {
	return "/folders/" + url.PathEscape(scope.String())
}
