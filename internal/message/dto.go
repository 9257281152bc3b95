package message

import (
	"strings"

	"github.com/opsarif/ngo-erp/internal"
)

// CreateMessageDTO represents the request payload for sending a message
type CreateMessageDTO struct {
	Audience     string `json:"audience"`
	RecipientID  *int64 `json:"recipient_id,omitempty"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

// Validate checks that the audience tag and the addressing fields agree.
func (dto CreateMessageDTO) Validate() error {
	if !ValidAudience(dto.Audience) {
		return internal.NewValidationError("audience must be one of direct, department, broadcast", internal.ErrCodeInvalidAudience)
	}
	if strings.TrimSpace(dto.Body) == "" {
		return internal.NewValidationError("body is required", internal.ErrCodeMissingField)
	}
	if dto.RecipientID != nil && dto.DepartmentID != nil {
		return internal.NewValidationError("a message cannot name both a recipient and a department", internal.ErrCodeInvalidAudience)
	}

	switch dto.Audience {
	case AudienceDirect:
		if dto.RecipientID == nil {
			return internal.NewValidationError("direct messages require recipient_id", internal.ErrCodeInvalidAudience)
		}
	case AudienceDepartment:
		if dto.DepartmentID == nil {
			return internal.NewValidationError("department messages require department_id", internal.ErrCodeInvalidAudience)
		}
	case AudienceBroadcast:
		if dto.RecipientID != nil || dto.DepartmentID != nil {
			return internal.NewValidationError("broadcast messages cannot name a recipient or department", internal.ErrCodeInvalidAudience)
		}
	}
	return nil
}
