package event

import (
	"time"
)

// Event is a read-only notice: a dated announcement scoped to one
// department or shared with the whole organization (nil department).
type Event struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	ScheduledAt  time.Time `json:"scheduled_at" gorm:"column:scheduled_at;not null"`
	DepartmentID *int64    `json:"department_id,omitempty" gorm:"column:department_id"`
	CreatedByID  int64     `json:"created_by_id" gorm:"column:created_by_id;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) Shared() bool {
	return e.DepartmentID == nil
}

// Repository defines the data access methods for events
type Repository interface {
	Create(event *Event) error
	GetByID(id int64) (*Event, error)
	GetShared() ([]*Event, error)
	GetByDepartment(deptID int64) ([]*Event, error)
	Update(event *Event) error
	Delete(id int64) error
}
