package sqlite

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/smart-office/dashboard/backend/internal/domain/auth"
	"github.com/smart-office/dashboard/backend/internal/storage"
)

// UserRepository is the sqlite implementation of auth.Repository. It
// translates storage-level errors into the auth domain's sentinels.
type UserRepository struct {
	store *storage.Repository
}

func NewUserRepository(store *storage.Repository) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) CreateUser(ctx context.Context, user authdomain.User) error {
	return mapStorageError(r.store.CreateUser(ctx, user))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (authdomain.User, error) {
	user, err := r.store.GetUserByEmail(ctx, email)
	return user, mapStorageError(err)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (authdomain.User, error) {
	user, err := r.store.GetUserByID(ctx, id)
	return user, mapStorageError(err)
}

func (r *UserRepository) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return r.store.RevokeToken(ctx, tokenID, expiresAt)
}

func (r *UserRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r.store.IsTokenRevoked(ctx, tokenID)
}

func (r *UserRepository) PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error) {
	return r.store.PurgeRevokedTokens(ctx, before)
}

func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrConflict):
		return authdomain.ErrEmailInUse
	case errors.Is(err, storage.ErrNotFound):
		return authdomain.ErrNotFound
	default:
		return err
	}
}
