package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrWrongTokenType       = errors.New("wrong token type")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// TokenType discriminates short-lived access tokens from long-lived refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

func (t TokenType) valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Supported values of TOKEN_ALGORITHM
const (
	AlgorithmHS256         = "HS256"
	AlgorithmHS384         = "HS384"
	AlgorithmHS512         = "HS512"
	AlgorithmPasetoV4Local = "v4.local"
)

// TokenClaims are the verified contents of a token
type TokenClaims struct {
	SubjectID uuid.UUID
	TokenType TokenType
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256/HS384/HS512) and PasetoService (PASETO v4.local).
//
// VerifyToken checks signature and expiry together and returns ErrExpiredToken
// or ErrInvalidToken; it does not look at the token type.
type TokenService interface {
	CreateToken(subjectID uuid.UUID, tokenType TokenType, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the TokenService for algorithm, signing with key
func NewTokenService(algorithm string, key []byte) (TokenService, error) {
	switch algorithm {
	case AlgorithmHS256, AlgorithmHS384, AlgorithmHS512:
		svc, err := NewJWTService(algorithm, key)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case AlgorithmPasetoV4Local:
		svc, err := NewPasetoService(key)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}
