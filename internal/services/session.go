package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/material-inventory-backend/internal/sessions"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "mims_session"

// SessionService issues and validates session cookie tokens. The token is a
// signed JWT whose jti addresses a server-side session record: the signature
// proves the cookie came from us, the record makes logout real.
type SessionService interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	Validate(ctx context.Context, token string) (*sessions.Session, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}

type sessionService struct {
	log    *logger.Logger
	store  sessions.Store
	secret []byte
	ttl    time.Duration
}

func NewSessionService(store sessions.Store, secretKey string, ttl time.Duration, baseLog *logger.Logger) SessionService {
	return &sessionService{
		log:    baseLog.With("service", "SessionService"),
		store:  store,
		secret: []byte(secretKey),
		ttl:    ttl,
	}
}

func (s *sessionService) Issue(ctx context.Context, user *domain.User) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	if err := s.store.Save(ctx, sessionID, sessions.Session{
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, s.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (*sessions.Session, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, apierr.Unauthorized("invalid session")
	}
	session, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.UserID.String() != claims.Subject {
		return nil, apierr.Unauthorized("invalid session")
	}
	return session, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parseClaims(token)
	if err != nil {
		// A cookie we never issued has no record to delete.
		return nil
	}
	return s.store.Delete(ctx, claims.ID)
}

func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

func (s *sessionService) parseClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return claims, nil
}
