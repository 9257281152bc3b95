package request

import (
	"encoding/json"
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateRequestDTO represents the payload for a generic request ticket
type CreateRequestDTO struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

func (dto CreateRequestDTO) Validate() error {
	if strings.TrimSpace(dto.Type) == "" {
		return internal.NewValidationError("type is required", internal.ErrCodeMissingField)
	}
	return nil
}

// UpdateStatusDTO represents the payload for a ticket transition
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status != StatusApproved && dto.Status != StatusRejected {
		return internal.NewValidationError("status must be approved or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// RespondDTO represents the payload for responding to a ticket, with an
// optional inline transition.
type RespondDTO struct {
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Status  *string `json:"status,omitempty"`
}

func (dto RespondDTO) Validate() error {
	if strings.TrimSpace(dto.Subject) == "" {
		return internal.NewValidationError("subject is required", internal.ErrCodeMissingField)
	}
	if strings.TrimSpace(dto.Body) == "" {
		return internal.NewValidationError("body is required", internal.ErrCodeMissingField)
	}
	if dto.Status != nil && *dto.Status != StatusApproved && *dto.Status != StatusRejected {
		return internal.NewValidationError("status must be approved or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// LeaveRequestDTO is the structured payload for leave workflows
type LeaveRequestDTO struct {
	StartDate internal.Date `json:"start_date"`
	EndDate   internal.Date `json:"end_date"`
	Reason    string        `json:"reason"`
}

func (dto LeaveRequestDTO) Validate() error {
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return internal.NewValidationError("start_date and end_date are required", internal.ErrCodeMissingField)
	}
	if dto.EndDate.Before(dto.StartDate.Time) {
		return internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	if strings.TrimSpace(dto.Reason) == "" {
		return internal.NewValidationError("reason is required", internal.ErrCodeMissingField)
	}
	return nil
}

func (dto LeaveRequestDTO) Marshal() (string, error) {
	return marshalPayload(dto)
}

// ProcurementRequestDTO is the structured payload for procurement workflows
type ProcurementRequestDTO struct {
	Item          string `json:"item"`
	Quantity      int    `json:"quantity"`
	EstimatedCost *int64 `json:"estimated_cost,omitempty"`
	Justification string `json:"justification"`
}

func (dto ProcurementRequestDTO) Validate() error {
	if strings.TrimSpace(dto.Item) == "" {
		return internal.NewValidationError("item is required", internal.ErrCodeMissingField)
	}
	if dto.Quantity <= 0 {
		return internal.NewValidationError("quantity must be positive", internal.ErrCodeInvalidAmount)
	}
	if dto.EstimatedCost != nil && *dto.EstimatedCost < 0 {
		return internal.NewValidationError("estimated_cost cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if strings.TrimSpace(dto.Justification) == "" {
		return internal.NewValidationError("justification is required", internal.ErrCodeMissingField)
	}
	return nil
}

func (dto ProcurementRequestDTO) Marshal() (string, error) {
	return marshalPayload(dto)
}

// TravelRequestDTO is the structured payload for travel workflows
type TravelRequestDTO struct {
	Destination   string        `json:"destination"`
	StartDate     internal.Date `json:"start_date"`
	EndDate       internal.Date `json:"end_date"`
	Purpose       string        `json:"purpose"`
	EstimatedCost *int64        `json:"estimated_cost,omitempty"`
}

func (dto TravelRequestDTO) Validate() error {
	if strings.TrimSpace(dto.Destination) == "" {
		return internal.NewValidationError("destination is required", internal.ErrCodeMissingField)
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return internal.NewValidationError("start_date and end_date are required", internal.ErrCodeMissingField)
	}
	if dto.EndDate.Before(dto.StartDate.Time) {
		return internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	if strings.TrimSpace(dto.Purpose) == "" {
		return internal.NewValidationError("purpose is required", internal.ErrCodeMissingField)
	}
	if dto.EstimatedCost != nil && *dto.EstimatedCost < 0 {
		return internal.NewValidationError("estimated_cost cannot be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

func (dto TravelRequestDTO) Marshal() (string, error) {
	return marshalPayload(dto)
}

func marshalPayload(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", internal.NewInternalError("failed to serialize payload", err)
	}
	return string(b), nil
}
