package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/takuyahirata23/quick-note/internal/domain"
	"github.com/takuyahirata23/quick-note/internal/id"
	"github.com/takuyahirata23/quick-note/internal/store"
)

func scanFolder(scanner interface{ Scan(dest ...any) error }) (*domain.Folder, error) {
	var (
		f         domain.Folder
		createdAt string
		count     int64
	)
	if err := scanner.Scan(&f.ID, &f.Name, &f.UserID, &createdAt, &count); err != nil {
		return nil, err
	}

	var err error
	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse folder created_at: %w", err)
	}
	f.NotesCount = int(count)
	return &f, nil
}

// CreateFolder inserts a folder owned by userID.
func (s *Store) CreateFolder(ctx context.Context, name, userID string) (*domain.Folder, error) {
	folderID, err := id.Generate(id.PrefixFolder)
	if err != nil {
		return nil, err
	}

	f := &domain.Folder{
		ID:        folderID,
		Name:      name,
		UserID:    userID,
		CreatedAt: s.now(),
	}

	if _, err := s.exec(ctx, insertFolderQuery, f.ID, f.Name, f.UserID, formatTime(f.CreatedAt)); err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput.WithCause(err)
		}
		return nil, fmt.Errorf("insert folder: %w", err)
	}
	return f, nil
}

// GetFolder returns the folder with its note count, or nil when the user has
// no folder with that ID.
func (s *Store) GetFolder(ctx context.Context, userID, folderID string) (*domain.Folder, error) {
	f, err := scanFolder(s.queryRow(ctx, selectFolderQuery, userID, folderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return f, nil
}

// GetFolders returns every folder owned by the user, oldest first.
func (s *Store) GetFolders(ctx context.Context, userID string) ([]*domain.Folder, error) {
	rows, err := s.query(ctx, selectFoldersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []*domain.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return folders, nil
}

// GetFolderWithNotes loads the folder and its notes concurrently. Returns nil
// when the folder does not exist for this user.
func (s *Store) GetFolderWithNotes(ctx context.Context, userID, folderID string) (*domain.FolderWithNotes, error) {
	var (
		folder *domain.Folder
		notes  []*domain.Note
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folder, err = s.GetFolder(gctx, userID, folderID)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.GetNotesUnderFolder(gctx, userID, folderID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if folder == nil {
		return nil, nil
	}
	return &domain.FolderWithNotes{
		Folder: folder,
		Notes:  domain.GroupByPin(notes),
	}, nil
}

// EditFolder renames a folder. Reports whether a folder owned by the user changed.
func (s *Store) EditFolder(ctx context.Context, userID, folderID, name string) (bool, error) {
	ok, err := s.execOne(ctx, updateFolderQuery, name, userID, folderID)
	if err != nil {
		return false, fmt.Errorf("update folder: %w", err)
	}
	return ok, nil
}

// DeleteFolder removes a folder and, through the foreign key, its notes.
func (s *Store) DeleteFolder(ctx context.Context, userID, folderID string) (bool, error) {
	ok, err := s.execOne(ctx, deleteFolderQuery, userID, folderID)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}
	return ok, nil
}
