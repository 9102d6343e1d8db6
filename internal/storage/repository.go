package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/smart-office/dashboard/backend/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

func (r *Repository) CreateUser(ctx context.Context, user model.User) error {
	var displayName any
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		displayName = name
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users(id, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, normalizeEmail(user.Email), displayName, user.PasswordHash, formatTime(user.CreatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE email = ?`, normalizeEmail(email))
	return scanUser(row)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *Repository) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens(token_id, expires_at) VALUES (?, ?)
		ON CONFLICT(token_id) DO UPDATE SET expires_at=excluded.expires_at`,
		tokenID, formatTime(expiresAt),
	)
	return err
}

func (r *Repository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM revoked_tokens WHERE token_id = ?`, tokenID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeRevokedTokens drops revocations whose tokens have expired anyway.
func (r *Repository) PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, formatTime(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user        model.User
		displayName sql.NullString
		createdAt   string
	)
	err := row.Scan(&user.ID, &user.Email, &displayName, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	user.DisplayName = nullableString(displayName)
	user.CreatedAt = parseTime(createdAt)
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "unique constraint") || strings.Contains(text, "constraint failed: unique")
}
