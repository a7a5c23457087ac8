package dto

import (
	"github.com/google/uuid"
)

// TokenRequest optionally pins the user id; a fresh one is generated when
// absent.
type TokenRequest struct {
	UserId string `json:"userId"`
}

type TokenResponse struct {
	Token  string    `json:"token"`
	UserId uuid.UUID `json:"userId"`
}

type VerifyResponse struct {
	Valid  bool      `json:"valid"`
	UserId uuid.UUID `json:"userId"`
}
