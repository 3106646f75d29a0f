// Package service holds the check-in state rules, token issuance and the
// broker publisher used by the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/metrics"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/repository"
)

// CheckInStore is the persistence contract the service relies on.  Lookups
// return repository.ErrNotFound when nothing matches and Insert returns
// repository.ErrDuplicate when the user already has a record.
type CheckInStore interface {
	FindByUserID(ctx context.Context, userID uint64) (*model.CheckIn, error)
	FindByID(ctx context.Context, id uint64) (*model.CheckIn, error)
	Insert(ctx context.Context, c *model.CheckIn) (*model.CheckIn, error)
	Update(ctx context.Context, c *model.CheckIn) (*model.CheckIn, error)
}

// CheckInInput carries the attributes of a create or update request.
type CheckInInput struct {
	UserID               uint64 `json:"userId"`
	Location             string `json:"location"`
	Swag                 bool   `json:"swag"`
	CredentialsRequested bool   `json:"credentialsRequested"`
}

// CheckInService applies the check-in transition rules on top of a store.
// It holds no locks: uniqueness is decided by the store at insert time and
// concurrent updates are last-write-wins.
type CheckInService struct {
	store CheckInStore
}

func NewCheckInService(store CheckInStore) *CheckInService {
	return &CheckInService{store: store}
}

// FindByUserID returns the check-in of the given user.  A missing record is
// reported as apperrors.KindNotFound.
func (s *CheckInService) FindByUserID(ctx context.Context, userID uint64) (*model.CheckIn, error) {
	c, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("no check-in exists for user %d", userID))
		}
		return nil, err
	}
	return c, nil
}

// FindByID returns the check-in with the given record id.
func (s *CheckInService) FindByID(ctx context.Context, id uint64) (*model.CheckIn, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("no check-in exists with id %d", id))
		}
		return nil, err
	}
	return c, nil
}

// Create records the first check-in of a user.  There is deliberately no
// lookup before the insert; a duplicate is detected by the store and
// reported as apperrors.KindInvalidParameter.
func (s *CheckInService) Create(ctx context.Context, in CheckInInput) (*model.CheckIn, error) {
	c, err := s.store.Insert(ctx, &model.CheckIn{
		UserID:               in.UserID,
		Location:             in.Location,
		Swag:                 in.Swag,
		CredentialsRequested: in.CredentialsRequested,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.CheckInConflicts.Inc()
			return nil, apperrors.InvalidParameter(
				fmt.Sprintf("user %d has already checked in", in.UserID), "userId")
		}
		return nil, err
	}
	metrics.CheckInsCreated.Inc()
	if c.Swag {
		metrics.SwagClaimed.Inc()
	}
	return c, nil
}

// Update changes an existing check-in.  Location and CredentialsRequested
// are overwritten.  Swag only moves from false to true: a request to clear it
// is ignored and the stored value is returned.
func (s *CheckInService) Update(ctx context.Context, in CheckInInput) (*model.CheckIn, error) {
	c, err := s.FindByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	claimed := !c.Swag && in.Swag

	c.Location = in.Location
	c.CredentialsRequested = in.CredentialsRequested
	c.Swag = c.Swag || in.Swag

	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if claimed {
		metrics.SwagClaimed.Inc()
	}
	return updated, nil
}
