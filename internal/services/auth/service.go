package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/smart-office/dashboard/backend/internal/domain/auth"
	"github.com/smart-office/dashboard/backend/internal/security"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Compare(hash string, password []byte) error
}

// TokenIssuer signs and validates bearer tokens.
type TokenIssuer interface {
	Issue(userID, email string) (token string, tokenID string, expiresAt time.Time, err error)
	Validate(token string) (*security.Claims, error)
}

// Service implements auth.Service use-cases.
type Service struct {
	repo   authdomain.Repository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
	now    func() time.Time
}

func New(repo authdomain.Repository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// SignUp creates an account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, in authdomain.Credentials) (authdomain.Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return authdomain.Session{}, err
	}
	if len(in.Password) < authdomain.MinPasswordLength {
		return authdomain.Session{}, authdomain.ErrWeakPassword
	}
	if len(in.Password) > authdomain.MaxPasswordLength {
		return authdomain.Session{}, authdomain.ErrPasswordTooLong
	}

	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return authdomain.Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := authdomain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, authdomain.ErrEmailInUse) {
			return authdomain.Session{}, err
		}
		return authdomain.Session{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("account created", "user_id", user.ID)
	return s.openSession(user)
}

// SignIn verifies credentials. Unknown accounts and bad passwords are indistinguishable.
func (s *Service) SignIn(ctx context.Context, in authdomain.Credentials) (authdomain.Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return authdomain.Session{}, err
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, authdomain.ErrNotFound) {
		return authdomain.Session{}, authdomain.ErrWrongPassword
	}
	if err != nil {
		return authdomain.Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(in.Password)); err != nil {
		return authdomain.Session{}, authdomain.ErrWrongPassword
	}
	return s.openSession(user)
}

// SignOut revokes the caller's token until it would have expired.
func (s *Service) SignOut(ctx context.Context, principal authdomain.Principal) error {
	if principal.TokenID == "" {
		return authdomain.ErrUnauthorized
	}
	if err := s.repo.RevokeToken(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (authdomain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.Principal{}, authdomain.ErrUnauthorized
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return authdomain.Principal{}, authdomain.ErrUnauthorized
	}
	revoked, err := s.repo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return authdomain.Principal{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return authdomain.Principal{}, authdomain.ErrUnauthorized
	}

	principal := authdomain.Principal{
		UserID:  claims.Subject,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

// PurgeExpiredRevocations drops revocation rows that can no longer match a valid token.
func (s *Service) PurgeExpiredRevocations(ctx context.Context) error {
	removed, err := s.repo.PurgeRevokedTokens(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Debug("purged revoked tokens", "count", removed)
	}
	return nil
}

func (s *Service) openSession(user authdomain.User) (authdomain.Session, error) {
	token, _, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return authdomain.Session{}, fmt.Errorf("issue token: %w", err)
	}
	return authdomain.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", authdomain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", authdomain.ErrInvalidEmail
	}
	return email, nil
}
