package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/repository"
)

type stubAccounts struct {
	created  map[string][]string
	lastCost int
	err      error
	byID     map[uint64]*model.User
}

func (s *stubAccounts) Create(_ context.Context, email, _ string, roles []string, cost int) (uint64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.created[email]; ok {
		return 0, repository.ErrDuplicate
	}
	s.created[email] = roles
	s.lastCost = cost
	return uint64(len(s.created)), nil
}

func (s *stubAccounts) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func TestRegister(t *testing.T) {
	t.Run("creates the account with the configured cost", func(t *testing.T) {
		accounts := &stubAccounts{created: map[string][]string{}}
		h := NewUserHandler(accounts, 11)

		c, rec := newContext(http.MethodPost, "/v1/users",
			`{"email":" Door@Example.com ","password":"hunter22","roles":["staff","STAFF","volunteer"]}`)
		require.NoError(t, h.Register(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		assert.Equal(t, []string{model.RoleStaff, model.RoleVolunteer}, accounts.created["door@example.com"])
		assert.Equal(t, 11, accounts.lastCost)

		var out struct {
			Data userResp `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "door@example.com", out.Data.Email)
		assert.True(t, model.HasRole(out.Data.Roles, model.RoleStaff))
		assert.NotContains(t, rec.Body.String(), "hunter22")
	})

	t.Run("roles default to attendee", func(t *testing.T) {
		accounts := &stubAccounts{created: map[string][]string{}}
		c, _ := newContext(http.MethodPost, "/v1/users", `{"email":"a@example.com","password":"hunter22"}`)
		require.NoError(t, NewUserHandler(accounts, 10).Register(c))
		assert.Equal(t, []string{model.RoleAttendee}, accounts.created["a@example.com"])
	})

	t.Run("duplicate email is an invalid parameter", func(t *testing.T) {
		accounts := &stubAccounts{created: map[string][]string{"a@example.com": nil}}
		c, _ := newContext(http.MethodPost, "/v1/users", `{"email":"a@example.com","password":"hunter22"}`)
		err := NewUserHandler(accounts, 10).Register(c)
		require.ErrorIs(t, err, apperrors.KindInvalidParameter)
		e, _ := apperrors.As(err)
		assert.Equal(t, "email", e.Source)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		h := NewUserHandler(&stubAccounts{created: map[string][]string{}}, 10)
		for name, body := range map[string]string{
			"unknown role":  `{"email":"a@example.com","password":"hunter22","roles":["ROOT"]}`,
			"no email":      `{"password":"hunter22"}`,
			"no password":   `{"email":"a@example.com"}`,
			"long password": `{"email":"a@example.com","password":"` + strings.Repeat("a", 73) + `"}`,
		} {
			c, _ := newContext(http.MethodPost, "/v1/users", body)
			assert.ErrorIs(t, h.Register(c), apperrors.KindInvalidParameter, name)
		}
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("deadlock found")
		c, _ := newContext(http.MethodPost, "/v1/users", `{"email":"a@example.com","password":"hunter22"}`)
		assert.ErrorIs(t, NewUserHandler(&stubAccounts{err: boom}, 10).Register(c), boom)
	})
}

func TestGetUser(t *testing.T) {
	accounts := &stubAccounts{byID: map[uint64]*model.User{
		4: {ID: 4, Email: "door@example.com", PasswordHash: "$2a$10$secret",
			Roles: []model.UserRole{{Role: model.RoleStaff, Active: true}}},
	}}
	h := NewUserHandler(accounts, 10)

	c, rec := newContext(http.MethodGet, "/v1/users/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "door@example.com")
	assert.NotContains(t, rec.Body.String(), "$2a$10$secret")

	c, _ = newContext(http.MethodGet, "/v1/users/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	assert.ErrorIs(t, h.Get(c), apperrors.KindNotFound)
}
