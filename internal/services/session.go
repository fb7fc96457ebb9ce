package services

import (
	"strconv"
	"time"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultSessionTTL   = 30 * 24 * time.Hour
	DefaultRefreshAfter = 24 * time.Hour
)

// Session is a resolved session token.
type Session struct {
	Identity  models.Identity `json:"user"`
	IssuedAt  time.Time       `json:"issued_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type sessionClaims struct {
	UserID uint        `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies signed, stateless session tokens.
type SessionManager struct {
	secret       []byte
	ttl          time.Duration
	refreshAfter time.Duration
	issuer       string
	now          func() time.Time
}

func NewSessionManager(secret string, ttl, refreshAfter time.Duration, issuer string) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		secret:       []byte(secret),
		ttl:          ttl,
		refreshAfter: refreshAfter,
		issuer:       issuer,
		now:          time.Now,
	}
}

func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for identity that expires after the session TTL.
func (m *SessionManager) Issue(identity models.Identity) (string, time.Time, error) {
	if identity.UserID == 0 || !identity.Role.Valid() {
		return "", time.Time{}, errs.Validation("invalid session identity")
	}

	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)
	claims := sessionClaims{
		UserID: identity.UserID,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(identity.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errs.Unexpected(err, "failed to sign session")
	}
	return signed, expiresAt, nil
}

// Resolve verifies a token and returns its session. Any defect yields an
// Unauthorized error.
func (m *SessionManager) Resolve(token string) (*Session, error) {
	if token == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnauthorized, err, "invalid session")
	}
	if claims.UserID == 0 || !claims.Role.Valid() || claims.IssuedAt == nil {
		return nil, errs.Unauthorized("invalid session")
	}

	return &Session{
		Identity:  models.Identity{UserID: claims.UserID, Role: claims.Role},
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// NeedsRefresh reports whether the session is old enough to be re-issued.
func (m *SessionManager) NeedsRefresh(session *Session) bool {
	if session == nil || m.refreshAfter <= 0 {
		return false
	}
	return m.now().Sub(session.IssuedAt) >= m.refreshAfter
}
