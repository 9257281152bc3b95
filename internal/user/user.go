package user

import (
	"time"

	"github.com/opsarif/ngo-erp/internal/auth"
)

// User is the full account record. The auth package carries a slimmer view
// of the same row for request context.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"column:full_name;not null"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         auth.Role `json:"role" gorm:"not null"`
	DepartmentID *int64    `json:"department_id,omitempty" gorm:"column:department_id"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Repository defines the data access methods for users
type Repository interface {
	Create(user *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetAll() ([]*User, error)
	GetByDepartment(deptID int64) ([]*User, error)
	GetFirstActiveAdmin() (*User, error)
	Update(user *User) error
	Delete(id int64) error
	CountOpenTasks(userID int64) (int64, error)
}
