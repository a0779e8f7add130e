// Package auth resolves bearer tokens to user ids. Two implementations
// exist: a local HS256 verifier for offline development and a client for
// the hosted identity provider.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for tokens that are expired, malformed or
// rejected by the identity provider.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier exchanges a bearer token for the id of the user it belongs to.
// Implementations must be safe for concurrent use.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}
