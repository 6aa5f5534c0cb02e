package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/takuyahirata23/quick-note/internal/domain"
	"github.com/takuyahirata23/quick-note/internal/id"
	"github.com/takuyahirata23/quick-note/internal/store"
)

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var (
		n         domain.Note
		folderID  sql.NullString
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(
		&n.ID,
		&n.Title,
		&n.Description,
		&n.Copy,
		&n.IsPinned,
		&n.UserID,
		&folderID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if folderID.Valid {
		n.FolderID = &folderID.String
	}
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse note created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse note updated_at: %w", err)
	}
	return &n, nil
}

func (s *Store) listNotes(ctx context.Context, query string, args ...any) ([]*domain.Note, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote inserts an unpinned note. A nil folderID files the note under
// All Notes only. Returns store.ErrInvalidInput if the folder does not exist.
func (s *Store) CreateNote(ctx context.Context, title, description, copyText, userID string, folderID *string) (*domain.Note, error) {
	noteID, err := id.Generate(id.PrefixNote)
	if err != nil {
		return nil, err
	}

	now := s.now()
	n := &domain.Note{
		ID:          noteID,
		Title:       title,
		Description: description,
		Copy:        copyText,
		UserID:      userID,
		FolderID:    folderID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.exec(ctx, insertNoteQuery,
		n.ID,
		n.Title,
		n.Description,
		n.Copy,
		n.IsPinned,
		n.UserID,
		nullableString(n.FolderID),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput.WithCause(err)
		}
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

// GetNote returns one of the user's notes, or nil.
func (s *Store) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	n, err := scanNote(s.queryRow(ctx, selectNoteQuery, userID, noteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// GetAllNotes returns the virtual All Notes folder with every note the user
// owns, pinned first and most recently updated first.
func (s *Store) GetAllNotes(ctx context.Context, userID string) (*domain.FolderWithNotes, error) {
	notes, err := s.listNotes(ctx, selectAllNotesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list all notes: %w", err)
	}
	return &domain.FolderWithNotes{
		Folder: domain.AllNotesFolder{NotesCount: len(notes)},
		Notes:  domain.GroupByPin(notes),
	}, nil
}

// GetNotesUnderFolder returns the user's notes filed in folderID.
func (s *Store) GetNotesUnderFolder(ctx context.Context, userID, folderID string) ([]*domain.Note, error) {
	notes, err := s.listNotes(ctx, selectNotesUnderFolderQuery, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder notes: %w", err)
	}
	return notes, nil
}

// CountNotes returns how many notes the user owns.
func (s *Store) CountNotes(ctx context.Context, userID string) (int, error) {
	var n int64
	if err := s.queryRow(ctx, countNotesQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return int(n), nil
}

// EditNote replaces the note's text fields and bumps updated_at.
func (s *Store) EditNote(ctx context.Context, userID, noteID, title, description, copyText string) (bool, error) {
	ok, err := s.execOne(ctx, updateNoteQuery, title, description, copyText, formatTime(s.now()), userID, noteID)
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	return ok, nil
}

// PinOrUnpinNote sets the pin flag on one of the user's notes.
func (s *Store) PinOrUnpinNote(ctx context.Context, userID, noteID string, pinned bool) (bool, error) {
	ok, err := s.execOne(ctx, updateIsPinnedQuery, pinned, formatTime(s.now()), userID, noteID)
	if err != nil {
		return false, fmt.Errorf("update note pin: %w", err)
	}
	return ok, nil
}

// DeleteNote removes one of the user's notes.
func (s *Store) DeleteNote(ctx context.Context, userID, noteID string) (bool, error) {
	ok, err := s.execOne(ctx, deleteNoteQuery, userID, noteID)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	return ok, nil
}
