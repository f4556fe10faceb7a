package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is one server-side session record. The cookie token only names a
// record; a record absent here is a dead session regardless of the cookie.
type Session struct {
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store is the session persistence surface. Get returns (nil, nil) for a
// missing or expired session.
type Store interface {
	Save(ctx context.Context, id string, session Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
