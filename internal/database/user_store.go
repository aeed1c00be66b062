package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/stockledger/internal/ledger"
	"github.com/user/stockledger/internal/models"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// CreateUser inserts a new user. Cash starts at the schema default.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username: username,
		Password: passwordHash,
	}

	query := `INSERT INTO users (username, password_hash) VALUES ($1, $2)
			  RETURNING id, cash, created_at`

	err := s.pool.QueryRow(ctx, query, username, passwordHash).
		Scan(&user.ID, &user.Cash, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ledger.ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating user %s: %w", username, err)
	}

	return user, nil
}

// UserByUsername retrieves a user by their username. Returns nil, nil when
// no such user exists.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, cash, created_at
			  FROM users WHERE username = $1`
	return scanUser(ctx, s.pool, query, username)
}

// UserByID retrieves a user by their ID. Returns nil, nil when no such
// user exists.
func (s *Store) UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT id, username, password_hash, cash, created_at
			  FROM users WHERE id = $1`
	return scanUser(ctx, s.pool, query, userID)
}

func scanUser(ctx context.Context, q pgxQuerier, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := q.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Password, &user.Cash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

// UpdatePassword overwrites the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	cmdTag, err := s.pool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("updating password for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() != 1 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}
