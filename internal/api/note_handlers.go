package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/takuyahirata23/quick-note/internal/domain"
	"github.com/takuyahirata23/quick-note/internal/service"
)

const msgNoteDeleted = "Note deleted"

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/folders/{folderId}/notes",
		Summary:       "Create note",
		Description:   "Creates a note in a folder. Notes created under \"all\" belong to no folder.",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/notes/{noteId}",
		Summary:     "Get note",
		Tags:        []string{"Notes"},
		Middlewares: huma.Middlewares{requireSession},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "editNote",
		Method:        http.MethodPut,
		Path:          "/notes/{noteId}",
		Summary:       "Edit note",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleEditNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "pinNote",
		Method:        http.MethodPut,
		Path:          "/notes/{noteId}/pin",
		Summary:       "Pin or unpin note",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handlePinNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteNote",
		Method:        http.MethodDelete,
		Path:          "/notes/{noteId}",
		Summary:       "Delete note",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   huma.Middlewares{requireSession},
	}, s.handleDeleteNote)
}

// CreateNoteInput contains the new note form.
type CreateNoteInput struct {
	FolderID string `path:"folderId" doc:"Folder ID or \"all\""`
	Body     service.NoteRequest
}

// NoteIDInput identifies a note.
type NoteIDInput struct {
	NoteID string `path:"noteId"`
}

// EditNoteInput contains the edit form.
type EditNoteInput struct {
	NoteID string `path:"noteId"`
	Body   service.NoteRequest
}

// PinNoteInput sets the pin flag.
type PinNoteInput struct {
	NoteID string `path:"noteId"`
	Pinned bool   `query:"pinned" doc:"true to pin, false to unpin"`
}

// NoteResponse is a single note.
type NoteResponse struct {
	Note NoteView `json:"note"`
}

// NoteOutput wraps the note payload for Huma.
type NoteOutput struct {
	Body NoteResponse
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*RedirectOutput, error) {
	scope := domain.ParseFolderScope(input.FolderID)
	if _, err := s.services.Notes.Create(ctx, mustUserID(ctx), scope, input.Body); err != nil {
		return nil, err
	}
	return redirect(folderPath(scope)), nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	note, err := s.services.Notes.Get(ctx, mustUserID(ctx), input.NoteID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: NoteResponse{Note: toNoteView(note)}}, nil
}

func (s *Server) handleEditNote(ctx context.Context, input *EditNoteInput) (*RedirectOutput, error) {
	note, err := s.services.Notes.Edit(ctx, mustUserID(ctx), input.NoteID, input.Body)
	if err != nil {
		return nil, err
	}
	return redirect(folderPath(note.Scope())), nil
}

func (s *Server) handlePinNote(ctx context.Context, input *PinNoteInput) (*RedirectOutput, error) {
	note, err := s.services.Notes.SetPinned(ctx, mustUserID(ctx), input.NoteID, input.Pinned)
	if err != nil {
		return nil, err
	}
	return redirect(folderPath(note.Scope())), nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*RedirectOutput, error) {
	note, err := s.services.Notes.Delete(ctx, mustUserID(ctx), input.NoteID)
	if err != nil {
		return nil, err
	}

	flash, err := s.sessions.SetFlash(msgNoteDeleted)
	if err != nil {
		return nil, err
	}
	return redirect(folderPath(note.Scope())+"?status=success", flash), nil
}
