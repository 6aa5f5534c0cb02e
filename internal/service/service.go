// Package service holds the Quick Note use cases. Services validate input,
// enforce ownership through user-scoped store calls and translate storage
// outcomes into domain errors.
package service

import (
	"log/slog"

	"github.com/takuyahirata23/quick-note/internal/store"
	"github.com/takuyahirata23/quick-note/internal/validation"
)

// Services bundles every service the HTTP layer needs.
type Services struct {
	Auth    *AuthService
	Folders *FolderService
	Notes   *NoteService
}

// New wires all services over one store.
func New(s store.Store, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		Auth:    NewAuthService(s, logger),
		Folders: NewFolderService(s, logger),
		Notes:   NewNoteService(s, logger),
	}
}

func clean(s string) string { return validation.Trim(s) }
