package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/insured-api/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCPFValidate(t *testing.T) {
	out, err := execute(t, "cpf", "validate", "529.982.247-25", "168.995.350-09")
	require.NoError(t, err)
	assert.Contains(t, out, "52998224725")
	assert.Contains(t, out, "16899535009")

	out, err = execute(t, "cpf", "validate", "529.982.247-25", "529.982.247-24")
	assert.ErrorIs(t, err, errInvalidCPF)
	assert.Contains(t, out, "529.982.247-24")
}

func TestCPFComplete(t *testing.T) {
	out, err := execute(t, "cpf", "complete", "529.982.247")
	require.NoError(t, err)
	assert.Contains(t, out, "52998224725")

	_, err = execute(t, "cpf", "complete", "1234")
	assert.Error(t, err)

	_, err = execute(t, "cpf", "complete", "111111111")
	assert.Error(t, err)
}

func TestTokenInspect(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"
	t.Setenv("TOKEN_SIGNING_KEY", key)
	t.Setenv("TOKEN_ALGORITHM", auth.AlgorithmHS384)

	svc, err := auth.NewTokenService(auth.AlgorithmHS384, []byte(key))
	require.NoError(t, err)

	subject := uuid.New()
	token, err := svc.CreateToken(subject, auth.TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	out, err := execute(t, "token", "inspect", token)
	require.NoError(t, err)
	assert.Contains(t, out, subject.String())
	assert.Contains(t, out, "refresh")

	_, err = execute(t, "token", "inspect", "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
