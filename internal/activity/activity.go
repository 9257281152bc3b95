package activity

import (
	"time"
)

// ActivityLog is an append-only record of who did what. Entries are never
// updated or deleted.
type ActivityLog struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null"`
	Action    string    `json:"action" gorm:"not null"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// ListLimit caps activity feeds regardless of the requested window.
const ListLimit = 200

// Recorder is the write side other services depend on. Recording is best
// effort: failures are logged by the implementation, never surfaced to the
// calling operation.
type Recorder interface {
	Record(actorID int64, action, detail string)
}

// Repository defines the data access methods for activity logs
type Repository interface {
	Create(entry *ActivityLog) error
	GetRecent(limit int) ([]*ActivityLog, error)
	GetRecentByDepartment(deptID int64, limit int) ([]*ActivityLog, error)
}
