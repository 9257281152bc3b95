package user

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// CreateUserDTO represents the request payload for creating a user
type CreateUserDTO struct {
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Role         auth.Role `json:"role"`
	DepartmentID *int64    `json:"department_id,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if strings.TrimSpace(dto.FullName) == "" {
		return internal.NewValidationError("full_name is required", internal.ErrCodeMissingField)
	}
	if strings.TrimSpace(dto.Email) == "" || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if !dto.Role.Valid() {
		return internal.NewValidationError("role must be one of admin, manager, staff, collaborator", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateUserDTO carries partial updates; nil fields are left untouched.
type UpdateUserDTO struct {
	FullName     *string    `json:"full_name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Password     *string    `json:"password,omitempty"`
	Role         *auth.Role `json:"role,omitempty"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.FullName != nil && strings.TrimSpace(*dto.FullName) == "" {
		return internal.NewValidationError("full_name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Email != nil && !strings.Contains(*dto.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password != nil && len(*dto.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Role != nil && !dto.Role.Valid() {
		return internal.NewValidationError("role must be one of admin, manager, staff, collaborator", internal.ErrCodeValidationFailed)
	}
	return nil
}
