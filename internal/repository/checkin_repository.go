package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-checkin/internal/model"
)

// CheckInRepo provides data access to the checkins table.  The table carries
// a unique key on user_id; that key, not any lookup in this package, is what
// keeps a user to a single check-in.
type CheckInRepo struct {
	db *sql.DB
}

// NewCheckInRepo returns a CheckInRepo bound to the given database.
func NewCheckInRepo(db *sql.DB) *CheckInRepo { return &CheckInRepo{db: db} }

const checkInColumns = `id, user_id, location, swag, credentials_requested`

func scanCheckIn(row *sql.Row) (*model.CheckIn, error) {
	var c model.CheckIn
	if err := row.Scan(&c.ID, &c.UserID, &c.Location, &c.Swag, &c.CredentialsRequested); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByUserID returns the check-in of the given user or ErrNotFound.
func (r *CheckInRepo) FindByUserID(ctx context.Context, userID uint64) (*model.CheckIn, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+checkInColumns+` FROM checkins WHERE user_id = ? LIMIT 1`, userID)
	return scanCheckIn(row)
}

// FindByID returns the check-in with the given primary key or ErrNotFound.
func (r *CheckInRepo) FindByID(ctx context.Context, id uint64) (*model.CheckIn, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+checkInColumns+` FROM checkins WHERE id = ? LIMIT 1`, id)
	return scanCheckIn(row)
}

// Insert stores a new check-in and returns it with the generated ID.  A
// second insert for the same user fails with ErrDuplicate.
func (r *CheckInRepo) Insert(ctx context.Context, c *model.CheckIn) (*model.CheckIn, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO checkins (user_id, location, swag, credentials_requested) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Location, c.Swag, c.CredentialsRequested)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert checkin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert checkin: %w", err)
	}
	out := *c
	out.ID = uint64(id)
	return &out, nil
}

// Update overwrites the mutable columns of an existing check-in.
func (r *CheckInRepo) Update(ctx context.Context, c *model.CheckIn) (*model.CheckIn, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE checkins SET location = ?, swag = ?, credentials_requested = ? WHERE id = ?`,
		c.Location, c.Swag, c.CredentialsRequested, c.ID)
	if err != nil {
		return nil, fmt.Errorf("update checkin %d: %w", c.ID, err)
	}
	out := *c
	return &out, nil
}
