package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/pkg/apperrors"
)

func TestIssueTokenMintsUserId(t *testing.T) {
	svc := NewAuthService("test-secret")

	res, err := svc.IssueToken(context.Background(), &dto.TokenRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.UserId)

	parsed, err := jwt.Parse(res.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, res.UserId.String(), claims["user_id"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.InDelta(t, time.Now().Add(24*time.Hour).Unix(), int64(exp), 60)
}

func TestIssueTokenKeepsProvidedUserId(t *testing.T) {
	svc := NewAuthService("test-secret")
	userId := uuid.New()

	res, err := svc.IssueToken(context.Background(), &dto.TokenRequest{UserId: userId.String()})
	require.NoError(t, err)
	assert.Equal(t, userId, res.UserId)
}

func TestIssueTokenRejectsMalformedUserId(t *testing.T) {
	svc := NewAuthService("test-secret")

	_, err := svc.IssueToken(context.Background(), &dto.TokenRequest{UserId: "not-a-uuid"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
