package auth

import (
	"github.com/opsarif/ngo-erp/internal"
)

// Scope tells a repository how far a listing may reach for the acting user.
type Scope struct {
	All          bool
	DepartmentID *int64
	UserID       int64
}

// Policy centralizes authorization decisions. Methods take primitive owner
// and department IDs instead of domain structs so every package can call in
// without import cycles.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// VisibilityScope returns the listing scope for the acting user: admins see
// everything, managers their department, everyone else their own records.
func (p *Policy) VisibilityScope(actor *User) Scope {
	switch {
	case actor.IsAdmin():
		return Scope{All: true, UserID: actor.ID}
	case actor.IsManager() && actor.DepartmentID != nil:
		return Scope{DepartmentID: actor.DepartmentID, UserID: actor.ID}
	default:
		return Scope{UserID: actor.ID}
	}
}

// CanViewRecord checks read access to a single record owned by ownerID in
// department deptID.
func (p *Policy) CanViewRecord(actor *User, ownerID int64, deptID *int64) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.ID == ownerID {
		return true
	}
	if actor.IsManager() && actor.SameDepartment(deptID) {
		return true
	}
	return false
}

// CanManageUsers limits account administration to admins and managers.
func (p *Policy) CanManageUsers(actor *User) bool {
	return actor.IsAdmin() || actor.IsManager()
}

// CanCreateUser enforces manager constraints: managers may only create
// staff or collaborator accounts inside their own department.
func (p *Policy) CanCreateUser(actor *User, newRole Role, newDeptID *int64) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsManager() {
		return internal.NewForbiddenError("only admins and managers can create users", internal.ErrCodeRoleDenied)
	}
	if newRole == RoleAdmin || newRole == RoleManager {
		return internal.NewForbiddenError("managers cannot create admin or manager accounts", internal.ErrCodeRoleDenied)
	}
	if !actor.SameDepartment(newDeptID) {
		return internal.NewForbiddenError("managers can only create users in their own department", internal.ErrCodeScopeViolation)
	}
	return nil
}

// CanModifyUser applies the same manager constraints to updates and deletes
// of an existing account.
func (p *Policy) CanModifyUser(actor *User, targetRole Role, targetDeptID *int64) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsManager() {
		return internal.NewForbiddenError("only admins and managers can modify users", internal.ErrCodeRoleDenied)
	}
	if targetRole == RoleAdmin || targetRole == RoleManager {
		return internal.NewForbiddenError("managers cannot modify admin or manager accounts", internal.ErrCodeRoleDenied)
	}
	if !actor.SameDepartment(targetDeptID) {
		return internal.NewForbiddenError("managers can only modify users in their own department", internal.ErrCodeScopeViolation)
	}
	return nil
}

// CanAssignTask checks whether the actor may create or reassign a task for
// the assignee.
func (p *Policy) CanAssignTask(actor *User, assigneeDeptID *int64) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsManager() && actor.SameDepartment(assigneeDeptID) {
		return nil
	}
	return internal.NewForbiddenError("not allowed to assign tasks outside your department", internal.ErrCodeScopeViolation)
}

// CanRespondToRequest limits request ticket transitions and responses to
// admins and to managers of the requester's department.
func (p *Policy) CanRespondToRequest(actor *User, requesterDeptID *int64) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsManager() && actor.SameDepartment(requesterDeptID) {
		return nil
	}
	return internal.NewForbiddenError("not allowed to respond to this request", internal.ErrCodeRoleDenied)
}

// CanBroadcast limits organization-wide messages to admins; managers may
// address their own department.
func (p *Policy) CanBroadcast(actor *User) bool {
	return actor.IsAdmin()
}

func (p *Policy) CanMessageDepartment(actor *User, deptID *int64) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsManager() && actor.SameDepartment(deptID)
}

// CanViewReports gates reporting: admins see everything, managers get
// department-filtered views.
func (p *Policy) CanViewReports(actor *User) bool {
	return actor.IsAdmin() || actor.IsManager()
}

// CanManageCatalog gates fundraising and program CRUD.
func (p *Policy) CanManageCatalog(actor *User) bool {
	return actor.IsAdmin() || actor.IsManager()
}
