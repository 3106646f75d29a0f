package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/repository"
)

// UserStore is the persistence contract for accounts.  Create returns
// repository.ErrDuplicate when the email is taken.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, email, password string, roles []string, cost int) (uint64, error)
}

// EnsureUser creates the account unless one with the same email already
// exists.  It reports whether a new account was written.  Existing accounts
// keep their password and roles.
func EnsureUser(ctx context.Context, users UserStore, email, password string, roles []string, cost int) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, errors.New("email and password are required")
	}
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("lookup %s: %w", email, err)
	}

	if _, err := users.Create(ctx, email, password, roles, cost); err != nil {
		// Another instance created it between the lookup and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", email, err)
	}
	return true, nil
}
