package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/metrics"
	"github.com/iliyamo/event-checkin/internal/model"
)

// Identity is what a token is issued for.  model.User satisfies it through
// UserIdentity.
type Identity interface {
	IdentityID() uint64
	IdentityEmail() string
	IdentityRoles() []model.UserRole
}

// UserIdentity adapts a model.User to Identity.
type UserIdentity struct{ *model.User }

func (u UserIdentity) IdentityID() uint64              { return u.ID }
func (u UserIdentity) IdentityEmail() string           { return u.Email }
func (u UserIdentity) IdentityRoles() []model.UserRole { return u.Roles }

// Claims is the payload of an access token.  The subject holds the user id
// in decimal form.
type Claims struct {
	Email string           `json:"email"`
	Roles []model.UserRole `json:"roles"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// TokenService signs and verifies HS256 access tokens.  The secret and the
// expiration are fixed at construction.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, expiration time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiration: expiration, now: time.Now}
}

// Issue returns a signed token claiming the identity's email and roles.
// Signing errors are returned as produced by the jwt library.
func (s *TokenService) Issue(identity Identity) (string, error) {
	now := s.now().UTC()
	roles := identity.IdentityRoles()
	if roles == nil {
		roles = []model.UserRole{}
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: identity.IdentityEmail(),
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(identity.IdentityID(), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	})
	return t.SignedString(s.secret)
}

// Verify checks the token's signature and expiry and returns its claims.
// Every failure is reported as apperrors.KindUnprocessableRequest carrying
// the library's message.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		metrics.TokenVerifyFailures.Inc()
		return nil, apperrors.UnprocessableRequest(err.Error())
	}
	if !parsed.Valid {
		metrics.TokenVerifyFailures.Inc()
		return nil, apperrors.UnprocessableRequest("token is invalid")
	}
	return claims, nil
}
