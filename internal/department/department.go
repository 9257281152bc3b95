package department

import (
	"time"
)

// Department is an organizational unit. Users, tasks and request tickets
// all hang off a department.
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// Repository defines the data access methods for departments
type Repository interface {
	Create(dept *Department) error
	GetByID(id int64) (*Department, error)
	GetByName(name string) (*Department, error)
	GetAll() ([]*Department, error)
	Update(dept *Department) error
	Delete(id int64) error
	CountUsers(deptID int64) (int64, error)
}
