package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenPair is returned on login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenManager issues access/refresh pairs and verifies tokens of an expected type.
// Tokens are stateless: nothing is stored server side.
type TokenManager struct {
	tokens          TokenService
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewTokenManager(tokens TokenService, accessDuration, refreshDuration time.Duration) *TokenManager {
	return &TokenManager{
		tokens:          tokens,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

// Issue creates a short-lived access token and a long-lived refresh token for subjectID
func (m *TokenManager) Issue(subjectID uuid.UUID) (*TokenPair, error) {
	accessToken, err := m.tokens.CreateToken(subjectID, TokenTypeAccess, m.accessDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := m.tokens.CreateToken(subjectID, TokenTypeRefresh, m.refreshDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(m.accessDuration.Seconds()),
	}, nil
}

// Verify checks the token and requires it to be of type want
func (m *TokenManager) Verify(tokenStr string, want TokenType) (*TokenClaims, error) {
	claims, err := m.tokens.VerifyToken(tokenStr)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
