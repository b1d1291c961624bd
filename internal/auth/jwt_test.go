package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		key       []byte
		wantErr   error
	}{
		{name: "HS256", algorithm: AlgorithmHS256, key: testSigningKey},
		{name: "HS384", algorithm: AlgorithmHS384, key: testSigningKey},
		{name: "HS512", algorithm: AlgorithmHS512, key: testSigningKey},
		{name: "asymmetric algorithm", algorithm: "RS256", key: testSigningKey, wantErr: ErrUnsupportedAlgorithm},
		{name: "unknown algorithm", algorithm: "none", key: testSigningKey, wantErr: ErrUnsupportedAlgorithm},
		{name: "short key", algorithm: AlgorithmHS256, key: []byte("short")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewJWTService(tt.algorithm, tt.key)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
			case len(tt.key) < MinHMACKeyLength:
				require.Error(t, err)
				assert.Nil(t, svc)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.algorithm, svc.method.Alg())
			}
		})
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	for _, alg := range []string{AlgorithmHS256, AlgorithmHS384, AlgorithmHS512} {
		t.Run(alg, func(t *testing.T) {
			svc, err := NewJWTService(alg, testSigningKey)
			require.NoError(t, err)

			subject := uuid.New()
			token, err := svc.CreateToken(subject, TokenTypeAccess, 5*time.Minute)
			require.NoError(t, err)
			assert.Equal(t, 2, strings.Count(token, "."))

			claims, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, subject, claims.SubjectID)
			assert.Equal(t, TokenTypeAccess, claims.TokenType)
			assert.NotEmpty(t, claims.TokenID)
			assert.WithinDuration(t, claims.IssuedAt.Add(5*time.Minute), claims.ExpiresAt, time.Second)
		})
	}
}

func TestJWTService_PayloadCarriesUserID(t *testing.T) {
	svc, err := NewJWTService(AlgorithmHS256, testSigningKey)
	require.NoError(t, err)

	subject := uuid.New()
	token, err := svc.CreateToken(subject, TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, subject.String(), claims["user_id"])
	assert.Equal(t, "refresh", claims["token_type"])
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService(AlgorithmHS256, testSigningKey)
	require.NoError(t, err)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issued)

	token, err := svc.CreateToken(uuid.New(), TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	svc.now = fixedClock(issued.Add(30 * time.Second))
	_, err = svc.VerifyToken(token)
	require.NoError(t, err)

	svc.now = fixedClock(issued.Add(2 * time.Minute))
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc, err := NewJWTService(AlgorithmHS256, testSigningKey)
	require.NoError(t, err)

	otherKey, err := NewJWTService(AlgorithmHS256, []byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	otherAlg, err := NewJWTService(AlgorithmHS512, testSigningKey)
	require.NoError(t, err)

	subject := uuid.New()

	wrongKeyToken, err := otherKey.CreateToken(subject, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	wrongAlgToken, err := otherAlg.CreateToken(subject, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		UserID:    subject.String(),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// Signature of one token on the payload of another
	good, err := svc.CreateToken(subject, TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	other, err := svc.CreateToken(uuid.New(), TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	goodParts := strings.Split(good, ".")
	otherParts := strings.Split(other, ".")
	spliced := goodParts[0] + "." + otherParts[1] + "." + goodParts[2]

	tests := map[string]string{
		"wrong key":       wrongKeyToken,
		"wrong algorithm": wrongAlgToken,
		"alg none":        noneToken,
		"spliced payload": spliced,
		"garbage":         "not-a-token",
		"empty":           "",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := svc.VerifyToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_RejectsMissingExpiry(t *testing.T) {
	svc, err := NewJWTService(AlgorithmHS256, testSigningKey)
	require.NoError(t, err)

	subject := uuid.New()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID:    subject.String(),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject.String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(testSigningKey)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsUnknownTokenType(t *testing.T) {
	svc, err := NewJWTService(AlgorithmHS256, testSigningKey)
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), TokenType("session"), time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
