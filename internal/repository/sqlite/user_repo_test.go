package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	authdomain "github.com/smart-office/dashboard/backend/internal/domain/auth"
	"github.com/smart-office/dashboard/backend/internal/storage"
)

func TestUserRepositoryMapsStorageErrors(t *testing.T) {
	ctx := context.Background()
	store, err := storage.New(ctx, filepath.Join(t.TempDir(), "users.db"), nil)
	if err != nil {
		t.Fatalf("storage.New() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	repo := NewUserRepository(store)

	user := authdomain.User{ID: "u-1", Email: "desk@office.io", PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	user.ID = "u-2"
	if err := repo.CreateUser(ctx, user); !errors.Is(err, authdomain.ErrEmailInUse) {
		t.Fatalf("CreateUser() duplicate error = %v, want ErrEmailInUse", err)
	}
	if _, err := repo.GetUserByID(ctx, "missing"); !errors.Is(err, authdomain.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
	revoked, err := repo.IsTokenRevoked(ctx, "never-issued")
	if err != nil || revoked {
		t.Fatalf("IsTokenRevoked() = %v, %v", revoked, err)
	}
}
