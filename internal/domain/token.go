package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RefreshToken struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsActive reports whether the token can still be presented: never revoked and
// not past its expiry.
func (t *RefreshToken) IsActive() bool {
	return t.RevokedAt == nil && !t.IsExpired()
}

type RefreshTokenRepository interface {
	// Create generates a new opaque token for the user and, in the same unit of
	// work, revokes whatever active token the user still holds, so at most one
	// active token per user survives even under concurrent calls.
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*RefreshToken, error)

	// GetByToken returns nil for tokens that are absent, expired or revoked.
	// Callers cannot tell the three cases apart.
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)

	// GetActiveByUser returns the newest active token for the user, or nil.
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*RefreshToken, error)

	// Revoke marks the token unusable. Revoking an already-revoked or unknown
	// token is a no-op.
	Revoke(ctx context.Context, token string) error

	// SweepExpired deletes all rows past expiry and returns how many were removed.
	SweepExpired(ctx context.Context) (int64, error)
}
