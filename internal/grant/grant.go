package grant

import (
	"time"
)

// Permission names what the grantee may do with the resource.
type Permission string

const (
	PermissionView   Permission = "view"
	PermissionEdit   Permission = "edit"
	PermissionManage Permission = "manage"
)

func ValidPermission(p Permission) bool {
	switch p {
	case PermissionView, PermissionEdit, PermissionManage:
		return true
	}
	return false
}

// AccessGrant gives a user a named permission on an abstract resource,
// optionally scoped to a department.
type AccessGrant struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	UserID       int64      `json:"user_id"`
	ResourceType string     `json:"resource_type"`
	ResourceID   int64      `json:"resource_id"`
	Permission   Permission `json:"permission"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (AccessGrant) TableName() string {
	return "access_grants"
}

type RepositoryAPI interface {
	Create(g *AccessGrant) error
	GetByID(id int64) (*AccessGrant, error)
	GetAll() ([]*AccessGrant, error)
	GetByDepartment(departmentID int64) ([]*AccessGrant, error)
	GetByUser(userID int64) ([]*AccessGrant, error)
	Delete(id int64) error
}
