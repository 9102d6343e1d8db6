package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash([]byte("s3cret!"))
	require.NoError(t, err)
	require.NoError(t, h.Compare(hash, []byte("s3cret!")))
	require.ErrorIs(t, h.Compare(hash, []byte("nope")), bcrypt.ErrMismatchedHashAndPassword)
}

func TestNewHasherClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	require.Equal(t, bcrypt.MinCost, NewHasher(1).Cost)
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost)
}

func TestTokenIssueAndValidate(t *testing.T) {
	p := NewTokenProvider([]byte("test-secret"), "smart-office", time.Hour)
	token, id, expiresAt, err := p.Issue("user-1", "a@b.co")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := p.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "a@b.co", claims.Email)
	require.Equal(t, id, claims.ID)
}

func TestTokenValidateRejects(t *testing.T) {
	p := NewTokenProvider([]byte("test-secret"), "smart-office", time.Hour)
	token, _, _, err := p.Issue("user-1", "a@b.co")
	require.NoError(t, err)

	other := NewTokenProvider([]byte("other-secret"), "smart-office", time.Hour)
	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenProvider([]byte("test-secret"), "someone-else", time.Hour)
	_, err = wrongIssuer.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenProvider([]byte("test-secret"), "smart-office", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, _, err := expired.Issue("user-1", "a@b.co")
	require.NoError(t, err)
	_, err = p.Validate(old)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = p.Validate(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.Validate("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret(32)
	require.NoError(t, err)
	b, err := RandomSecret(32)
	require.NoError(t, err)
	require.Len(t, a, 64)
	require.NotEqual(t, a, b)
}
