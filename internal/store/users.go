package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/supplychain/internal/model"
)

const userColumns = `id, username, email, password_hash, role, created_at`

// CreateUser creates a new user. A taken username yields ErrDuplicate.
func CreateUser(ctx context.Context, q Querier, username, email, passwordHash, role string) (*model.User, error) {
	id, err := Insert(ctx, q, "users", []Field{
		F("username", username),
		F("email", email),
		F("password_hash", passwordHash),
		F("role", role),
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return GetUser(ctx, q, id)
}

// GetUser returns a user by ID, or nil if there is none.
func GetUser(ctx context.Context, q Querier, id int64) (*model.User, error) {
	return scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
}

// GetUserByUsername returns a user by username, or nil if there is none.
func GetUserByUsername(ctx context.Context, q Querier, username string) (*model.User, error) {
	return scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	))
}

// ListUsers returns users, optionally filtered by role.
func ListUsers(ctx context.Context, q Querier, role string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("listing users", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, unavailable("scanning user", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserPassword updates a user's password hash. Credentials are the
// only mutable part of a user.
func UpdateUserPassword(ctx context.Context, q Querier, id int64, passwordHash string) (bool, error) {
	n, err := ConditionalUpdate(ctx, q, "users",
		[]Field{F("password_hash", passwordHash)},
		[]Field{F("id", id)},
	)
	if err != nil {
		return false, fmt.Errorf("updating user password: %w", err)
	}
	return n == 1, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("getting user", err)
	}
	return u, nil
}
