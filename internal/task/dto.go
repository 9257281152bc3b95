package task

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateTaskDTO represents the request payload for creating a task
type CreateTaskDTO struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	StartDate    internal.Date `json:"start_date"`
	EndDate      internal.Date `json:"end_date"`
	AssigneeID   int64         `json:"assigned_to_id"`
	DepartmentID *int64        `json:"department_id,omitempty"`
}

func (dto CreateTaskDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	if dto.AssigneeID == 0 {
		return internal.NewValidationError("assigned_to_id is required", internal.ErrCodeMissingField)
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return internal.NewValidationError("start_date and end_date are required", internal.ErrCodeMissingField)
	}
	if dto.EndDate.Before(dto.StartDate.Time) {
		return internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateTaskDTO carries field-level updates. Which fields the caller may
// touch depends on their role; the service enforces that.
type UpdateTaskDTO struct {
	Title        *string        `json:"title,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Status       *string        `json:"status,omitempty"`
	StartDate    *internal.Date `json:"start_date,omitempty"`
	EndDate      *internal.Date `json:"end_date,omitempty"`
	AssigneeID   *int64         `json:"assigned_to_id,omitempty"`
	DepartmentID *int64         `json:"department_id,omitempty"`
}

func (dto UpdateTaskDTO) Validate() error {
	if dto.Title != nil && strings.TrimSpace(*dto.Title) == "" {
		return internal.NewValidationError("title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return internal.NewValidationError("status must be one of pending, in_progress, done, blocked", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// TouchesAdminFields reports whether the patch touches fields only admins
// may change.
func (dto UpdateTaskDTO) TouchesAdminFields() bool {
	return dto.Title != nil || dto.AssigneeID != nil || dto.DepartmentID != nil
}

// CreateCommentDTO represents the request payload for a task comment
type CreateCommentDTO struct {
	Body string `json:"body"`
}

func (dto CreateCommentDTO) Validate() error {
	if strings.TrimSpace(dto.Body) == "" {
		return internal.NewValidationError("body is required", internal.ErrCodeMissingField)
	}
	return nil
}
