package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/pkg/apperrors"
)

const tokenTTL = 24 * time.Hour

type IAuthService interface {
	IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error)
}

type authService struct {
	jwtSecret string
}

func NewAuthService(jwtSecret string) IAuthService {
	return &authService{
		jwtSecret: jwtSecret,
	}
}

// IssueToken signs a JWT for the given user id, minting a fresh id when the
// request leaves it empty. There is no account store; possession of a token
// is what defines a user.
func (s *authService) IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	userId := uuid.New()
	if req.UserId != "" {
		parsed, err := uuid.Parse(req.UserId)
		if err != nil {
			return nil, apperrors.Validation("userId must be a valid UUID")
		}
		userId = parsed
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:  signed,
		UserId: userId,
	}, nil
}
