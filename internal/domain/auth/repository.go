package auth

import (
	"context"
	"time"
)

// Repository defines persistent storage operations for accounts.
type Repository interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)

	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error)
}
