package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoKeyLength is the exact v4.local symmetric key size, in bytes
const PasetoKeyLength = 32

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	now          func() time.Time
}

func NewPasetoService(symmetricKey []byte) (*PasetoService, error) {
	if len(symmetricKey) != PasetoKeyLength {
		return nil, fmt.Errorf("symmetric key must be exactly %d bytes, got %d", PasetoKeyLength, len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		now:          time.Now,
	}, nil
}

// CreateToken generates a new PASETO v4.local token for subjectID valid for duration
func (s *PasetoService) CreateToken(subjectID uuid.UUID, tokenType TokenType, duration time.Duration) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(duration))
	token.SetSubject(subjectID.String())
	token.SetJti(uuid.NewString())
	token.SetString("token_type", string(tokenType))

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts a v4.local token and checks its expiry against the service clock
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !s.now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	subjectID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	rawType, err := token.GetString("token_type")
	if err != nil {
		return nil, ErrInvalidToken
	}
	tokenType := TokenType(rawType)
	if !tokenType.valid() {
		return nil, ErrInvalidToken
	}

	tokenID, err := token.GetJti()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		SubjectID: subjectID,
		TokenType: tokenType,
		TokenID:   tokenID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
