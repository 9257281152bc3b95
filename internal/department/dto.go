package department

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateDepartmentDTO represents the request payload for creating a department
type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (dto CreateDepartmentDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if len(dto.Name) > 120 {
		return internal.NewValidationError("name must be at most 120 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateDepartmentDTO carries partial updates; nil fields are left untouched.
type UpdateDepartmentDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (dto UpdateDepartmentDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Name != nil && len(*dto.Name) > 120 {
		return internal.NewValidationError("name must be at most 120 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
