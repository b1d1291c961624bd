package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/insured-api/internal/insured"
)

type mockIdentityResolver struct {
	mock.Mock
}

func (m *mockIdentityResolver) Get(ctx context.Context, id uuid.UUID) (*insured.Insured, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*insured.Insured)
	return rec, args.Error(1)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "Bearer v4.local.xyz", want: "v4.local.xyz"},
		{header: "bearer abc", wantErr: true},
		{header: "Token abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer ", wantErr: true},
		{header: "Bearer a b", wantErr: true},
		{header: "Bearer  abc", wantErr: true},
		{header: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGateway_Resolve(t *testing.T) {
	tokens := newTestTokenManager(t, AlgorithmHS256)
	subject := &insured.Insured{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}

	pair, err := tokens.Issue(subject.ID)
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		identities := &mockIdentityResolver{}
		identities.On("Get", mock.Anything, subject.ID).Return(subject, nil).Once()

		got, err := NewGateway(tokens, identities).Resolve(context.Background(), "Bearer "+pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, subject, got)
		identities.AssertExpectations(t)
	})

	t.Run("no header is not a denial", func(t *testing.T) {
		identities := &mockIdentityResolver{}

		got, err := NewGateway(tokens, identities).Resolve(context.Background(), "")
		assert.ErrorIs(t, err, ErrNoCredentials)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
		assert.Nil(t, got)
		identities.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("deleted subject is denied", func(t *testing.T) {
		identities := &mockIdentityResolver{}
		identities.On("Get", mock.Anything, subject.ID).Return(nil, insured.ErrNotFound).Once()

		_, err := NewGateway(tokens, identities).Resolve(context.Background(), "Bearer "+pair.AccessToken)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.ErrorIs(t, err, insured.ErrNotFound)
		assert.Equal(t, "unknown_subject", DenialReason(err))
	})

	t.Run("lookup failure is not a denial", func(t *testing.T) {
		identities := &mockIdentityResolver{}
		identities.On("Get", mock.Anything, subject.ID).Return(nil, errors.New("connection refused")).Once()

		_, err := NewGateway(tokens, identities).Resolve(context.Background(), "Bearer "+pair.AccessToken)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
		assert.NotErrorIs(t, err, ErrNoCredentials)
	})
}

func TestGateway_ResolveDenials(t *testing.T) {
	tokens := newTestTokenManager(t, AlgorithmHS256)
	subjectID := uuid.New()

	pair, err := tokens.Issue(subjectID)
	require.NoError(t, err)

	expiredSvc, err := NewJWTService(AlgorithmHS256, testSigningKey)
	require.NoError(t, err)
	expiredSvc.now = fixedClock(time.Now().Add(-time.Hour))
	expired, err := expiredSvc.CreateToken(subjectID, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{name: "malformed header", header: "Token " + pair.AccessToken, reason: "malformed_header"},
		{name: "refresh token as access", header: "Bearer " + pair.RefreshToken, reason: "wrong_token_type"},
		{name: "expired", header: "Bearer " + expired, reason: "expired"},
		{name: "garbage", header: "Bearer garbage", reason: "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identities := &mockIdentityResolver{}

			got, err := NewGateway(tokens, identities).Resolve(context.Background(), tt.header)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrUnauthenticated)

			var denial *DenialError
			require.ErrorAs(t, err, &denial)
			assert.Equal(t, tt.reason, DenialReason(err))
			identities.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}
