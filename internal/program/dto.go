package program

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateProjectDTO represents the request payload for creating a project
type CreateProjectDTO struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Budget      *int64         `json:"budget,omitempty"`
	Progress    *string        `json:"progress,omitempty"`
	StartDate   *internal.Date `json:"start_date,omitempty"`
	EndDate     *internal.Date `json:"end_date,omitempty"`
}

func (dto CreateProjectDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if len(dto.Name) > 200 {
		return internal.NewValidationError("name must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Budget != nil && *dto.Budget < 0 {
		return internal.NewValidationError("budget must not be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.StartDate != nil && dto.EndDate != nil && dto.EndDate.Before(dto.StartDate.Time) {
		return internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateProjectDTO carries partial updates; nil fields are left untouched.
type UpdateProjectDTO struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Budget      *int64         `json:"budget,omitempty"`
	Progress    *string        `json:"progress,omitempty"`
	StartDate   *internal.Date `json:"start_date,omitempty"`
	EndDate     *internal.Date `json:"end_date,omitempty"`
}

func (dto UpdateProjectDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Budget != nil && *dto.Budget < 0 {
		return internal.NewValidationError("budget must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

// CreateBeneficiaryDTO represents the request payload for registering a beneficiary
type CreateBeneficiaryDTO struct {
	Name      string  `json:"name"`
	Contact   *string `json:"contact,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	ProjectID *int64  `json:"project_id,omitempty"`
}

func (dto CreateBeneficiaryDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	return nil
}

// UpdateBeneficiaryDTO carries partial updates; nil fields are left untouched.
type UpdateBeneficiaryDTO struct {
	Name      *string `json:"name,omitempty"`
	Contact   *string `json:"contact,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	ProjectID *int64  `json:"project_id,omitempty"`
}

func (dto UpdateBeneficiaryDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
