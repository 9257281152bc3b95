package performance

import (
	"github.com/opsarif/ngo-erp/internal"
)

// CreatePerformanceLogDTO represents the request payload for rating a user
type CreatePerformanceLogDTO struct {
	UserID int64   `json:"user_id"`
	TaskID *int64  `json:"task_id,omitempty"`
	Score  int     `json:"score"`
	Note   *string `json:"note,omitempty"`
}

func (dto CreatePerformanceLogDTO) Validate() error {
	if dto.UserID <= 0 {
		return internal.NewValidationError("user_id is required", internal.ErrCodeMissingField)
	}
	if dto.Score < 0 || dto.Score > 100 {
		return internal.NewValidationError("score must be between 0 and 100", internal.ErrCodeValidationFailed)
	}
	return nil
}
