package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/takuyahirata23/quick-note/internal/domain"
	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
	"github.com/takuyahirata23/quick-note/internal/store"
	"github.com/takuyahirata23/quick-note/internal/validation"
)

const msgFolderNotFound = "Folder not found"

// FolderService manages a user's folders and the All Notes view.
type FolderService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(s store.Store, logger *slog.Logger) *FolderService {
	return &FolderService{store: s, logger: logger}
}

// FolderRequest is the create/rename folder form.
type FolderRequest struct {
	Name string `json:"name,omitempty"`
}

func (r FolderRequest) fields() map[string]string {
	return map[string]string{"name": r.Name}
}

// Overview is what the dashboard shows.
type Overview struct {
	Folders       []*domain.Folder
	AllNotesCount int
}

// Create validates and stores a new folder.
func (s *FolderService) Create(ctx context.Context, userID string, req FolderRequest) (*domain.Folder, error) {
	if err := validation.FolderForm.Check(req.fields(), nil); err != nil {
		return nil, err
	}

	folder, err := s.store.CreateFolder(ctx, clean(req.Name), userID)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Unauthorized(msgSessionUserMissing).WithCause(err)
		}
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

// List returns the user's folders with note counts.
func (s *FolderService) List(ctx context.Context, userID string) ([]*domain.Folder, error) {
	folders, err := s.store.GetFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// Overview loads folders and the All Notes count concurrently.
func (s *FolderService) Overview(ctx context.Context, userID string) (*Overview, error) {
	var out Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Folders, err = s.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.AllNotesCount, err = s.store.CountNotes(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the folder selected by scope together with its notes. The
// virtual scope always exists.
func (s *FolderService) Get(ctx context.Context, userID string, scope domain.FolderScope) (*domain.FolderWithNotes, error) {
	folderID, persisted := scope.FolderID()
	if !persisted {
		fwn, err := s.store.GetAllNotes(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get all notes: %w", err)
		}
		return fwn, nil
	}

	fwn, err := s.store.GetFolderWithNotes(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	if fwn == nil {
		return nil, domainerrors.NotFound(msgFolderNotFound)
	}
	return fwn, nil
}

// Rename changes a folder's name. The virtual folder cannot be renamed.
func (s *FolderService) Rename(ctx context.Context, userID, folderID string, req FolderRequest) error {
	if err := validation.FolderForm.Check(req.fields(), nil); err != nil {
		return err
	}
	if domain.ParseFolderScope(folderID).IsAll() {
		return domainerrors.NotFound(msgFolderNotFound)
	}

	ok, err := s.store.EditFolder(ctx, userID, folderID, clean(req.Name))
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	if !ok {
		return domainerrors.NotFound(msgFolderNotFound)
	}
	return nil
}

// Delete removes a folder and every note in it.
func (s *FolderService) Delete(ctx context.Context, userID, folderID string) error {
	if domain.ParseFolderScope(folderID).IsAll() {
		return domainerrors.NotFound(msgFolderNotFound)
	}

	ok, err := s.store.DeleteFolder(ctx, userID, folderID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if !ok {
		return domainerrors.NotFound(msgFolderNotFound)
	}

	s.logger.Info("folder deleted", "user_id", userID, "folder_id", folderID)
	return nil
}
