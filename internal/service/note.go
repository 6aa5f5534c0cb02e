package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/takuyahirata23/quick-note/internal/domain"
	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
	"github.com/takuyahirata23/quick-note/internal/store"
	"github.com/takuyahirata23/quick-note/internal/validation"
)

const msgNoteNotFound = "Note not found"

// NoteService manages notes inside folders or the All Notes view.
type NoteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(s store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: s, logger: logger}
}

// NoteRequest is the create/edit note form. Copy is the optional body.
type NoteRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Copy        string `json:"copy,omitempty"`
}

func (r NoteRequest) fields() map[string]string {
	return map[string]string{"title": r.Title, "description": r.Description, "copy": r.Copy}
}

// Create stores a note in scope. Notes created from All Notes belong to no
// folder; otherwise the folder must be the user's.
func (s *NoteService) Create(ctx context.Context, userID string, scope domain.FolderScope, req NoteRequest) (*domain.Note, error) {
	if err := validation.NoteForm.Check(req.fields(), nil); err != nil {
		return nil, err
	}

	if folderID, ok := scope.FolderID(); ok {
		folder, err := s.store.GetFolder(ctx, userID, folderID)
		if err != nil {
			return nil, fmt.Errorf("get folder: %w", err)
		}
		if folder == nil {
			return nil, domainerrors.NotFound(msgFolderNotFound)
		}
	}

	note, err := s.store.CreateNote(ctx, clean(req.Title), clean(req.Description), req.Copy, userID, scope.FolderIDPtr())
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			// Folder vanished between the check and the insert.
			return nil, domainerrors.NotFound(msgFolderNotFound).WithCause(err)
		}
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Get returns one of the user's notes.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if note == nil {
		return nil, domainerrors.NotFound(msgNoteNotFound)
	}
	return note, nil
}

// Edit replaces the note's text and returns the updated note.
func (s *NoteService) Edit(ctx context.Context, userID, noteID string, req NoteRequest) (*domain.Note, error) {
	if err := validation.NoteForm.Check(req.fields(), nil); err != nil {
		return nil, err
	}

	ok, err := s.store.EditNote(ctx, userID, noteID, clean(req.Title), clean(req.Description), req.Copy)
	if err != nil {
		return nil, fmt.Errorf("edit note: %w", err)
	}
	if !ok {
		return nil, domainerrors.NotFound(msgNoteNotFound)
	}
	return s.Get(ctx, userID, noteID)
}

// SetPinned pins or unpins a note and returns it.
func (s *NoteService) SetPinned(ctx context.Context, userID, noteID string, pinned bool) (*domain.Note, error) {
	ok, err := s.store.PinOrUnpinNote(ctx, userID, noteID, pinned)
	if err != nil {
		return nil, fmt.Errorf("pin note: %w", err)
	}
	if !ok {
		return nil, domainerrors.NotFound(msgNoteNotFound)
	}
	return s.Get(ctx, userID, noteID)
}

// Delete removes a note and returns it as it was, so callers know which
// folder it lived in.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.DeleteNote(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}
	if !ok {
		return nil, domainerrors.NotFound(msgNoteNotFound)
	}

	s.logger.Info("note deleted", "user_id", userID, "note_id", noteID)
	return note, nil
}
