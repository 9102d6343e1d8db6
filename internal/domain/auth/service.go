package auth

import "context"

// Service exposes account use-cases used by the HTTP layer.
type Service interface {
	SignUp(ctx context.Context, in Credentials) (Session, error)
	SignIn(ctx context.Context, in Credentials) (Session, error)
	SignOut(ctx context.Context, principal Principal) error
	Authenticate(ctx context.Context, token string) (Principal, error)
}
