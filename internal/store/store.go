// Package store defines the persistence interface for Quick Note.
//
// Reads that find nothing return (nil, nil). Mutations report whether exactly
// one row changed; rows owned by another user are indistinguishable from rows
// that do not exist.
package store

import (
	"context"

	"github.com/takuyahirata23/quick-note/internal/domain"
)

// Store is implemented by internal/store/sqldb for SQLite and Postgres.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)

	// Folders
	CreateFolder(ctx context.Context, name, userID string) (*domain.Folder, error)
	GetFolder(ctx context.Context, userID, folderID string) (*domain.Folder, error)
	GetFolders(ctx context.Context, userID string) ([]*domain.Folder, error)
	GetFolderWithNotes(ctx context.Context, userID, folderID string) (*domain.FolderWithNotes, error)
	EditFolder(ctx context.Context, userID, folderID, name string) (bool, error)
	DeleteFolder(ctx context.Context, userID, folderID string) (bool, error)

	// Notes
	CreateNote(ctx context.Context, title, description, copyText, userID string, folderID *string) (*domain.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error)
	GetAllNotes(ctx context.Context, userID string) (*domain.FolderWithNotes, error)
	GetNotesUnderFolder(ctx context.Context, userID, folderID string) ([]*domain.Note, error)
	CountNotes(ctx context.Context, userID string) (int, error)
	EditNote(ctx context.Context, userID, noteID, title, description, copyText string) (bool, error)
	PinOrUnpinNote(ctx context.Context, userID, noteID string, pinned bool) (bool, error)
	DeleteNote(ctx context.Context, userID, noteID string) (bool, error)
}
