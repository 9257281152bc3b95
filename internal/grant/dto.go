package grant

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateGrantDTO represents the request payload for granting access
type CreateGrantDTO struct {
	UserID       int64  `json:"user_id"`
	ResourceType string `json:"resource_type"`
	ResourceID   int64  `json:"resource_id"`
	Permission   string `json:"permission"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

func (dto CreateGrantDTO) Validate() error {
	if dto.UserID <= 0 {
		return internal.NewValidationError("user_id is required", internal.ErrCodeMissingField)
	}
	if strings.TrimSpace(dto.ResourceType) == "" {
		return internal.NewValidationError("resource_type is required", internal.ErrCodeMissingField)
	}
	if dto.ResourceID <= 0 {
		return internal.NewValidationError("resource_id is required", internal.ErrCodeMissingField)
	}
	if !ValidPermission(Permission(dto.Permission)) {
		return internal.NewValidationError("permission must be one of view, edit, manage", internal.ErrCodeValidationFailed)
	}
	return nil
}
