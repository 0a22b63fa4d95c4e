package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Authenticator verifies presented credentials against stored accounts and
// issues access tokens. It is stateless apart from the repository handle
// and the token codec, so one instance serves all requests.
type Authenticator struct {
	users  UserRepository
	tokens *TokenCodec
}

// NewAuthenticator creates an authenticator over the given account store
// and token codec.
func NewAuthenticator(users UserRepository, tokens *TokenCodec) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

// Register creates a new standard-role account with the given username and
// password. The existence pre-check is a fast path only; the store's UNIQUE
// constraint resolves concurrent registrations for the same username, so
// exactly one of N racing calls succeeds.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*User, error) {
	if _, err := a.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         RoleStandard,
	}

	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies a username/password pair and, on success, returns the
// account together with a freshly issued access token.
//
// Unknown usernames and wrong passwords both fail with the identical
// ErrInvalidCredentials — the symmetry is deliberate, so callers cannot
// enumerate which usernames exist. A corrupt stored hash is treated the
// same way rather than surfaced.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID, user.Role, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	return user, token, nil
}

// TokenTTL exposes the codec's configured token lifetime, for responses
// that report expires_in to clients.
func (a *Authenticator) TokenTTL() time.Duration {
	return a.tokens.TTL()
}
