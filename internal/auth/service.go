package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/redmonkez12/insured-api/internal/insured"
	"github.com/redmonkez12/insured-api/internal/logging"
)

// CredentialStore is the part of the insured service used by login
type CredentialStore interface {
	VerifyCredentials(ctx context.Context, email, password string) (*insured.Insured, error)
	RecordLogin(ctx context.Context, id uuid.UUID) error
}

// LoginResult is returned to a client after a successful login
type LoginResult struct {
	TokenPair
	InsuredID uuid.UUID `json:"insured_id"`
	Email     string    `json:"email"`
}

// Service handles authentication business logic
type Service struct {
	credentials CredentialStore
	tokens      *TokenManager
	logger      *logging.Logger
}

func NewService(credentials CredentialStore, tokens *TokenManager, logger *logging.Logger) *Service {
	return &Service{
		credentials: credentials,
		tokens:      tokens,
		logger:      logger,
	}
}

// Login authenticates an insured, issues a token pair and stamps the login time.
// Credential failures come back as insured.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	principal, err := s.credentials.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.Issue(principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.credentials.RecordLogin(ctx, principal.ID); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	s.logger.Debug("token pair issued", "insured_id", principal.ID, "expires_in", tokens.ExpiresIn)

	return &LoginResult{
		TokenPair: *tokens,
		InsuredID: principal.ID,
		Email:     principal.Email,
	}, nil
}
