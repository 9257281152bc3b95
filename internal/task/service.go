package task

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/storage"
)

// Service handles task business logic
type Service struct {
	repo     Repository
	policy   *auth.Policy
	store    storage.FileStore
	activity activity.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, policy *auth.Policy, store storage.FileStore, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		store:    store,
		activity: recorder,
		logger:   logger,
	}
}

func (s *Service) CreateTask(actor *auth.User, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.policy.CanAssignTask(actor, dto.DepartmentID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &Task{
		Title:        dto.Title,
		Description:  dto.Description,
		Status:       StatusPending,
		StartDate:    dto.StartDate.Time,
		EndDate:      dto.EndDate.Time,
		DepartmentID: dto.DepartmentID,
		AssigneeID:   dto.AssigneeID,
		CreatedByID:  actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(task); err != nil {
		s.logger.Error("failed to create task", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.activity.Record(actor.ID, "task_created", fmt.Sprintf("task %q assigned to user %d", task.Title, task.AssigneeID))
	task.ComputeOverdue(now)
	return task, nil
}

// GetTask loads a single task. Out-of-scope reads are reported as NotFound
// so task existence never leaks across departments.
func (s *Service) GetTask(actor *auth.User, id int64) (*Task, error) {
	task, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	task.ComputeOverdue(time.Now())
	return task, nil
}

func (s *Service) MyTasks(actor *auth.User) ([]*Task, error) {
	tasks, err := s.repo.GetByAssignee(actor.ID)
	if err != nil {
		return nil, err
	}
	return stampOverdue(tasks), nil
}

func (s *Service) DepartmentTasks(actor *auth.User) ([]*Task, error) {
	if actor.DepartmentID == nil {
		return []*Task{}, nil
	}
	tasks, err := s.repo.GetByDepartment(*actor.DepartmentID)
	if err != nil {
		return nil, err
	}
	return stampOverdue(tasks), nil
}

func (s *Service) CompletedTasks(actor *auth.User) ([]*Task, error) {
	tasks, err := s.repo.GetCompleted()
	if err != nil {
		return nil, err
	}

	scope := s.policy.VisibilityScope(actor)
	if scope.All {
		return stampOverdue(tasks), nil
	}

	visible := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if scope.DepartmentID != nil && t.DepartmentID != nil && *t.DepartmentID == *scope.DepartmentID {
			visible = append(visible, t)
			continue
		}
		if t.AssigneeID == scope.UserID {
			visible = append(visible, t)
		}
	}
	return stampOverdue(visible), nil
}

func (s *Service) AllTasks(actor *auth.User) ([]*Task, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, internal.NewForbiddenError("the full task list is restricted to admins and managers", internal.ErrCodeRoleDenied)
	}

	if actor.IsAdmin() {
		tasks, err := s.repo.GetAll()
		if err != nil {
			return nil, err
		}
		return stampOverdue(tasks), nil
	}

	return s.DepartmentTasks(actor)
}

// UpdateTask applies a field-level patch. Staff and managers may change
// status, description and dates; every other field is admin-only. A status
// change and its completed_at stamp land in the same UPDATE.
func (s *Service) UpdateTask(actor *auth.User, id int64, dto UpdateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	task, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}

	if !s.canMutate(actor, task) {
		return nil, internal.NewForbiddenError("not allowed to modify this task", internal.ErrCodeScopeViolation)
	}
	if dto.TouchesAdminFields() && !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only admins can change title, assignee or department", internal.ErrCodeRoleDenied)
	}

	if dto.Title != nil {
		task.Title = *dto.Title
	}
	if dto.Description != nil {
		task.Description = *dto.Description
	}
	if dto.StartDate != nil {
		task.StartDate = dto.StartDate.Time
	}
	if dto.EndDate != nil {
		task.EndDate = dto.EndDate.Time
	}
	if task.EndDate.Before(task.StartDate) {
		return nil, internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	if dto.AssigneeID != nil {
		task.AssigneeID = *dto.AssigneeID
	}
	if dto.DepartmentID != nil {
		task.DepartmentID = dto.DepartmentID
	}

	statusChanged := dto.Status != nil && *dto.Status != task.Status
	if statusChanged {
		if !CanTransition(task.Status, *dto.Status) {
			return nil, internal.NewInvalidTransitionError(
				fmt.Sprintf("cannot move task from %s to %s", task.Status, *dto.Status),
				internal.ErrCodeBadTransition,
			)
		}
		task.Status = *dto.Status
		if task.Status == StatusDone {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}
	task.UpdatedAt = time.Now()

	// A patch that only moves the status goes through the single-statement
	// path so the completed_at stamp cannot race the status write.
	if statusChanged && dto.Title == nil && dto.Description == nil && dto.StartDate == nil &&
		dto.EndDate == nil && dto.AssigneeID == nil && dto.DepartmentID == nil {
		if err := s.repo.SetStatus(task.ID, task.Status, task.CompletedAt); err != nil {
			s.logger.Error("failed to update task status", "error", err, "task_id", id)
			return nil, err
		}
	} else if err := s.repo.Update(task); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, err
	}

	s.activity.Record(actor.ID, "task_updated", fmt.Sprintf("task %d updated (status %s)", task.ID, task.Status))
	task.ComputeOverdue(time.Now())
	return task, nil
}

func (s *Service) DeleteTask(actor *auth.User, id int64) error {
	task, err := s.loadVisible(actor, id)
	if err != nil {
		return err
	}

	allowed := actor.IsAdmin() || actor.IsManager() || task.AssigneeID == actor.ID
	if !allowed {
		return internal.NewForbiddenError("not allowed to delete this task", internal.ErrCodeScopeViolation)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return err
	}

	s.activity.Record(actor.ID, "task_deleted", fmt.Sprintf("task %q deleted", task.Title))
	return nil
}

// SendToAdmin reassigns the task to the first active admin and records the
// request-for-review signal. Status is left untouched.
func (s *Service) SendToAdmin(actor *auth.User, id int64) (*Task, error) {
	task, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}

	adminID, err := s.repo.FirstActiveAdminID()
	if err != nil {
		s.logger.Error("no active admin available for task review", "error", err, "task_id", id)
		return nil, internal.NewNotFoundError("no active admin available", internal.ErrCodeUserNotFound)
	}

	if err := s.repo.Reassign(id, adminID); err != nil {
		s.logger.Error("failed to reassign task to admin", "error", err, "task_id", id)
		return nil, err
	}
	task.AssigneeID = adminID

	s.activity.Record(actor.ID, "task_sent_to_admin", fmt.Sprintf("task %d sent to admin %d for review", id, adminID))
	task.ComputeOverdue(time.Now())
	return task, nil
}

func (s *Service) CreateComment(actor *auth.User, taskID int64, dto CreateCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.loadVisible(actor, taskID); err != nil {
		return nil, err
	}

	comment := &Comment{
		TaskID:    taskID,
		UserID:    actor.ID,
		Body:      dto.Body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateComment(comment); err != nil {
		s.logger.Error("failed to create comment", "error", err, "task_id", taskID)
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListComments(actor *auth.User, taskID int64) ([]*Comment, error) {
	if _, err := s.loadVisible(actor, taskID); err != nil {
		return nil, err
	}
	return s.repo.GetComments(taskID)
}

// Upload stores the file before its database row so a failed insert never
// leaves a row pointing at nothing; the orphaned file is removed instead.
func (s *Service) Upload(actor *auth.User, taskID int64, filename string, src io.Reader, size int64) (*Resource, error) {
	task, err := s.loadVisible(actor, taskID)
	if err != nil {
		return nil, err
	}

	storedName, err := s.store.Save(filename, src, size)
	if err != nil {
		return nil, err
	}

	resource := &Resource{
		Filename:     filename,
		StoredName:   storedName,
		OwnerID:      actor.ID,
		TaskID:       &task.ID,
		DepartmentID: task.DepartmentID,
		UploadedAt:   time.Now(),
	}
	if err := s.repo.CreateResource(resource); err != nil {
		s.logger.Error("failed to save resource row, removing file", "error", err, "stored_name", storedName)
		if rmErr := s.store.Remove(storedName); rmErr != nil {
			s.logger.Error("failed to remove orphaned upload", "error", rmErr, "stored_name", storedName)
		}
		return nil, err
	}

	s.activity.Record(actor.ID, "resource_uploaded", fmt.Sprintf("file %q uploaded to task %d", filename, taskID))
	return resource, nil
}

func (s *Service) TaskResources(actor *auth.User, taskID int64) ([]*Resource, error) {
	if _, err := s.loadVisible(actor, taskID); err != nil {
		return nil, err
	}
	return s.repo.GetTaskResources(taskID)
}

func (s *Service) DepartmentResources(actor *auth.User, deptID int64) ([]*Resource, error) {
	if !actor.IsAdmin() && !actor.SameDepartment(&deptID) {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	return s.repo.GetDepartmentResources(deptID)
}

func (s *Service) loadVisible(actor *auth.User, id int64) (*Task, error) {
	task, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("task not found", internal.ErrCodeTaskNotFound)
	}
	if !s.canSee(actor, task) {
		return nil, internal.NewNotFoundError("task not found", internal.ErrCodeTaskNotFound)
	}
	return task, nil
}

func (s *Service) canSee(actor *auth.User, task *Task) bool {
	if s.policy.CanViewRecord(actor, task.AssigneeID, task.DepartmentID) {
		return true
	}
	return task.CreatedByID == actor.ID
}

// canMutate mirrors the transition rule: admins and managers within scope,
// or the assignee on their own task.
func (s *Service) canMutate(actor *auth.User, task *Task) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.IsManager() && actor.SameDepartment(task.DepartmentID) {
		return true
	}
	return task.AssigneeID == actor.ID
}

func stampOverdue(tasks []*Task) []*Task {
	now := time.Now()
	for _, t := range tasks {
		t.ComputeOverdue(now)
	}
	return tasks
}
