package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/takuyahirata23/quick-note/internal/domain"
	"github.com/takuyahirata23/quick-note/internal/store"
)

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
	)
	if err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	var err error
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a user in a single constrained statement.
// Returns store.ErrEmailExists if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}

	_, err := s.exec(ctx, insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists.WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID returns the user or nil if none exists.
func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, selectUserByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns the user with an exact email match, or nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, selectUserByEmailQuery, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user. Folders and notes go with it.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	ok, err := s.execOne(ctx, deleteUserQuery, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return ok, nil
}
