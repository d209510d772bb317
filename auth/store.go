package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Store persists user records. The service depends on this interface rather
// than the pool directly so the signup/login logic can be exercised against an
// in-memory implementation in tests.
type Store interface {
	// FindByUsername returns the user with the given username, or a NotFound
	// error when no such user exists.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Create inserts a new user. A Conflict error is returned when the
	// username is already taken; the database's unique constraint is the
	// backstop behind the service's check-then-act uniqueness check.
	Create(ctx context.Context, user *User) (*User, error)
}

// PgxStore is the PostgreSQL-backed Store implementation.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore creates a new PgxStore on top of the given pool.
func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

// FindByUsername retrieves a user by their username.
func (s *PgxStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, full_name, username, password, state, district, created_at
		FROM users
		WHERE username = $1
	`
	var user User
	// state/district are nullable profile fields
	var state, district sql.NullString
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.FullName,
		&user.Username,
		&user.HashedPassword,
		&state,
		&district,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("User not found.", nil)
		}
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to look up user %q", username), err)
	}
	user.State = state.String
	user.District = district.String
	return &user, nil
}

// Create inserts a new user and fills in its generated ID and creation time.
func (s *PgxStore) Create(ctx context.Context, user *User) (*User, error) {
	query := `
		INSERT INTO users (full_name, username, password, state, district)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query,
		user.FullName, user.Username, user.HashedPassword, user.State, user.District,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "username") {
			return nil, apperror.NewConflictError("Username already exists. Please choose another.", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}
