package event

import (
	"strings"
	"time"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateEventDTO represents the request payload for creating an event
type CreateEventDTO struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	DepartmentID *int64    `json:"department_id,omitempty"`
}

func (dto CreateEventDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	if dto.ScheduledAt.IsZero() {
		return internal.NewValidationError("scheduled_at is required", internal.ErrCodeMissingField)
	}
	return nil
}

// UpdateEventDTO carries partial updates; nil fields are left untouched.
type UpdateEventDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (dto UpdateEventDTO) Validate() error {
	if dto.Title != nil && strings.TrimSpace(*dto.Title) == "" {
		return internal.NewValidationError("title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.ScheduledAt != nil && dto.ScheduledAt.IsZero() {
		return internal.NewValidationError("scheduled_at cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// CreateMeetingDTO is the lighter payload for the meetings endpoint; any
// authenticated user may schedule one.
type CreateMeetingDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Shared      bool      `json:"shared"`
}

func (dto CreateMeetingDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	if dto.ScheduledAt.IsZero() {
		return internal.NewValidationError("scheduled_at is required", internal.ErrCodeMissingField)
	}
	return nil
}
