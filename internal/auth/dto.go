package auth

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// LoginDTO carries the credential exchange payload.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeMissingField)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeMissingField)
	}
	return nil
}

// RefreshTokenDTO is shared by the refresh and logout endpoints.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewValidationError("refresh_token is required", internal.ErrCodeMissingField)
	}
	return nil
}
