package task

import (
	"time"
)

// Task statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusBlocked    = "blocked"
)

// validTransitions holds the allowed status edges. A reopened task goes
// back to in_progress, never straight to pending.
var validTransitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusBlocked},
	StatusInProgress: {StatusDone, StatusBlocked},
	StatusBlocked:    {StatusInProgress},
	StatusDone:       {StatusInProgress},
}

func ValidStatus(status string) bool {
	_, ok := validTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Task struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Status       string     `json:"status" gorm:"default:pending"`
	StartDate    time.Time  `json:"start_date" gorm:"column:start_date;type:date"`
	EndDate      time.Time  `json:"end_date" gorm:"column:end_date;type:date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	DepartmentID *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	AssigneeID   int64      `json:"assigned_to_id" gorm:"column:assignee_id;not null"`
	CreatedByID  int64      `json:"created_by_id" gorm:"column:created_by_id;not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`

	// Overdue is computed per read, never persisted.
	Overdue bool `json:"overdue" gorm:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// ComputeOverdue stamps the display-only overdue flag.
func (t *Task) ComputeOverdue(now time.Time) {
	t.Overdue = t.Status != StatusDone && t.EndDate.Before(now)
}

// Comment is an immutable note on a task.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	TaskID    int64     `json:"task_id" gorm:"column:task_id;not null"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null"`
	Body      string    `json:"body" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Resource is an uploaded file scoped to a task and, through the task, to
// a department.
type Resource struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Filename     string    `json:"filename" gorm:"not null"`
	StoredName   string    `json:"-" gorm:"column:stored_name;not null"`
	OwnerID      int64     `json:"owner_id" gorm:"column:owner_id;not null"`
	TaskID       *int64    `json:"task_id,omitempty" gorm:"column:task_id"`
	DepartmentID *int64    `json:"department_id,omitempty" gorm:"column:department_id"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

func (Resource) TableName() string {
	return "resources"
}

// Repository defines the data access methods for tasks
type Repository interface {
	Create(task *Task) error
	GetByID(id int64) (*Task, error)
	GetByAssignee(userID int64) ([]*Task, error)
	GetByDepartment(deptID int64) ([]*Task, error)
	GetCompleted() ([]*Task, error)
	GetAll() ([]*Task, error)
	Update(task *Task) error
	SetStatus(id int64, status string, completedAt *time.Time) error
	Reassign(id int64, assigneeID int64) error
	Delete(id int64) error

	CreateComment(comment *Comment) error
	GetComments(taskID int64) ([]*Comment, error)

	CreateResource(resource *Resource) error
	GetTaskResources(taskID int64) ([]*Resource, error)
	GetDepartmentResources(deptID int64) ([]*Resource, error)

	FirstActiveAdminID() (int64, error)
}
