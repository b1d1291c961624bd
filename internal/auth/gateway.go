package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/insured-api/internal/insured"
)

var (
	// ErrNoCredentials means no Authorization header was sent at all.
	// It is not a denial: the caller decides whether anonymous access is allowed.
	ErrNoCredentials = errors.New("authentication credentials were not provided")

	// ErrUnauthenticated matches every *DenialError
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrMalformedHeader = errors.New("malformed authorization header")
)

// DenialError rejects a presented credential. Reason is kept for logs and
// metrics and is never sent to the client.
type DenialError struct {
	Reason error
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnauthenticated, e.Reason)
}

func (e *DenialError) Unwrap() error {
	return e.Reason
}

func (e *DenialError) Is(target error) bool {
	return target == ErrUnauthenticated
}

func deny(reason error) error {
	return &DenialError{Reason: reason}
}

// IdentityResolver looks up the insured a token was issued to
type IdentityResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*insured.Insured, error)
}

// Gateway turns an Authorization header value into the authenticated insured
type Gateway struct {
	tokens     *TokenManager
	identities IdentityResolver
}

func NewGateway(tokens *TokenManager, identities IdentityResolver) *Gateway {
	return &Gateway{tokens: tokens, identities: identities}
}

// Resolve verifies a "Bearer <access token>" header and loads its subject.
//
// It returns ErrNoCredentials for an empty header, a *DenialError for any
// rejected credential, and a plain error when the identity lookup itself fails.
func (g *Gateway) Resolve(ctx context.Context, header string) (*insured.Insured, error) {
	if header == "" {
		return nil, ErrNoCredentials
	}

	token, err := BearerToken(header)
	if err != nil {
		return nil, deny(err)
	}

	claims, err := g.tokens.Verify(token, TokenTypeAccess)
	if err != nil {
		return nil, deny(err)
	}

	principal, err := g.identities.Get(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, insured.ErrNotFound) {
			return nil, deny(err)
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return principal, nil
}

// BearerToken extracts the token from a "Bearer <token>" header value
func BearerToken(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// DenialReason names the reason behind a denial for logs and metrics
func DenialReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrWrongTokenType):
		return "wrong_token_type"
	case errors.Is(err, insured.ErrNotFound):
		return "unknown_subject"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "other"
	}
}
