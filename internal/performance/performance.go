package performance

import (
	"time"
)

// PerformanceLog rates a user, optionally tied to a task. Rows are
// append-only.
type PerformanceLog struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id"`
	TaskID      *int64    `json:"task_id,omitempty"`
	Score       int       `json:"score"`
	Note        *string   `json:"note,omitempty"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PerformanceLog) TableName() string {
	return "performance_logs"
}

type RepositoryAPI interface {
	Create(l *PerformanceLog) error
	GetByUser(userID int64) ([]*PerformanceLog, error)
	GetAll() ([]*PerformanceLog, error)
	GetByDepartment(departmentID int64) ([]*PerformanceLog, error)
}
