package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/utils"
)

// UserRepo reads and writes the users and user_roles tables.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the given active roles and returns its ID.  The
// user row and its roles are written in one transaction.
func (r *UserRepo) Create(ctx context.Context, email, password string, roles []string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)", email, hash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_roles (user_id, role, active) VALUES (?,?,1)", id, role); err != nil {
			return 0, fmt.Errorf("insert role %s: %w", role, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user and its roles by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx,
		"SELECT id,email,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user and its roles by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.get(ctx,
		"SELECT id,email,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	roles, err := r.rolesFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *UserRepo) rolesFor(ctx context.Context, userID uint64) ([]model.UserRole, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT role, active FROM user_roles WHERE user_id=? ORDER BY role", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := []model.UserRole{}
	for rows.Next() {
		var ur model.UserRole
		if err := rows.Scan(&ur.Role, &ur.Active); err != nil {
			return nil, err
		}
		roles = append(roles, ur)
	}
	return roles, rows.Err()
}
