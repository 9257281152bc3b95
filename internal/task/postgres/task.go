package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/task"
)

// TaskRepository implements task.Repository using GORM
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *task.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetByID(id int64) (*task.Task, error) {
	var t task.Task
	if err := r.db.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) GetByAssignee(userID int64) ([]*task.Task, error) {
	var tasks []*task.Task
	err := r.db.Where("assignee_id = ?", userID).
		Order("end_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetByDepartment(deptID int64) ([]*task.Task, error) {
	var tasks []*task.Task
	err := r.db.Where("department_id = ?", deptID).
		Order("end_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetCompleted() ([]*task.Task, error) {
	var tasks []*task.Task
	err := r.db.Where("status = ?", task.StatusDone).
		Order("completed_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetAll() ([]*task.Task, error) {
	var tasks []*task.Task
	err := r.db.Order("end_date ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(t *task.Task) error {
	t.UpdatedAt = time.Now()
	return r.db.Save(t).Error
}

// SetStatus writes status and completed_at in one statement so the stamp
// can never drift from the status.
func (r *TaskRepository) SetStatus(id int64, status string, completedAt *time.Time) error {
	return r.db.Model(&task.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		}).Error
}

func (r *TaskRepository) Reassign(id int64, assigneeID int64) error {
	return r.db.Model(&task.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assignee_id": assigneeID,
			"updated_at":  time.Now(),
		}).Error
}

func (r *TaskRepository) Delete(id int64) error {
	return r.db.Delete(&task.Task{}, id).Error
}

func (r *TaskRepository) CreateComment(c *task.Comment) error {
	return r.db.Create(c).Error
}

func (r *TaskRepository) GetComments(taskID int64) ([]*task.Comment, error) {
	var comments []*task.Comment
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *TaskRepository) CreateResource(res *task.Resource) error {
	return r.db.Create(res).Error
}

func (r *TaskRepository) GetTaskResources(taskID int64) ([]*task.Resource, error) {
	var resources []*task.Resource
	err := r.db.Where("task_id = ?", taskID).
		Order("uploaded_at DESC").
		Find(&resources).Error
	return resources, err
}

func (r *TaskRepository) GetDepartmentResources(deptID int64) ([]*task.Resource, error) {
	var resources []*task.Resource
	err := r.db.Where("department_id = ?", deptID).
		Order("uploaded_at DESC").
		Find(&resources).Error
	return resources, err
}

func (r *TaskRepository) FirstActiveAdminID() (int64, error) {
	var id int64
	err := r.db.Table("users").
		Select("id").
		Where("role = ? AND is_active = ?", "admin", true).
		Order("id ASC").
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return id, nil
}
