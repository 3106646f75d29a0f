package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/repository"
	"github.com/iliyamo/event-checkin/internal/service"
	"github.com/iliyamo/event-checkin/internal/utils"
)

func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Error
}

func TestErrorHandler(t *testing.T) {
	t.Run("domain error keeps kind and message", func(t *testing.T) {
		c, rec := newContext(http.MethodPost, "/v1/checkin", "")
		ErrorHandler(apperrors.InvalidParameter("user 1 has already checked in", "userId"), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "InvalidParameterError", body.Type)
		assert.Equal(t, "user 1 has already checked in", body.Message)
		assert.Equal(t, "userId", body.Source)
	})

	t.Run("echo http error", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/nope", "")
		ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "route not found", decodeError(t, rec).Message)
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/v1/checkin", "")
		ErrorHandler(errors.New("Error 1040: Too many connections"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.NotContains(t, body.Message, "1040")
	})
}

type stubUsers struct {
	users map[string]*model.User
	err   error
}

func (s stubUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	users := stubUsers{users: map[string]*model.User{
		"staff@example.com": {
			ID: 3, Email: "staff@example.com", PasswordHash: hash,
			Roles: []model.UserRole{{Role: model.RoleStaff, Active: true}},
		},
	}}
	tokens := service.NewTokenService("test-signing-key", time.Hour)
	h := NewAuthHandler(users, tokens)

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		c, rec := newContext(http.MethodPost, "/v1/auth/login", `{"email":" Staff@Example.com ","password":"hunter22"}`)
		require.NoError(t, h.Login(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var out struct {
			Data struct {
				Auth string `json:"auth"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		claims, err := tokens.Verify(out.Data.Auth)
		require.NoError(t, err)
		assert.Equal(t, "3", claims.Subject)
		assert.True(t, model.HasRole(claims.Roles, model.RoleStaff))
	})

	t.Run("wrong password", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"staff@example.com","password":"nope"}`)
		assert.ErrorIs(t, h.Login(c), apperrors.KindUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"ghost@example.com","password":"hunter22"}`)
		assert.ErrorIs(t, h.Login(c), apperrors.KindUnauthorized)
	})

	t.Run("missing password", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"staff@example.com"}`)
		err := h.Login(c)
		require.ErrorIs(t, err, apperrors.KindInvalidParameter)
		e, _ := apperrors.As(err)
		assert.Equal(t, "password", e.Source)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("bad connection")
		h := NewAuthHandler(stubUsers{err: boom}, tokens)
		c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"staff@example.com","password":"hunter22"}`)
		assert.ErrorIs(t, h.Login(c), boom)
	})
}

func TestBindInput(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/checkin", `{"userId":1,"location":"  DCL ","credentialsRequested":true}`)
	in, err := bindInput(c)
	require.NoError(t, err)
	assert.Equal(t, service.CheckInInput{UserID: 1, Location: "DCL", CredentialsRequested: true}, in)

	c, _ = newContext(http.MethodPost, "/v1/checkin", `{"location":"DCL"}`)
	_, err = bindInput(c)
	assert.ErrorIs(t, err, apperrors.KindInvalidParameter)

	c, _ = newContext(http.MethodPost, "/v1/checkin", `{"userId":1,"location":" "}`)
	_, err = bindInput(c)
	assert.ErrorIs(t, err, apperrors.KindInvalidParameter)

	c, _ = newContext(http.MethodPost, "/v1/checkin", `{"userId":"one"}`)
	_, err = bindInput(c)
	assert.ErrorIs(t, err, apperrors.KindInvalidParameter)
}
