package department

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Service handles department business logic
type Service struct {
	repo     Repository
	activity activity.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		activity: recorder,
		logger:   logger,
	}
}

func (s *Service) CreateDepartment(actor *auth.User, dto CreateDepartmentDTO) (*Department, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only admins can create departments", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, _ := s.repo.GetByName(dto.Name); existing != nil {
		return nil, internal.NewConflictError("a department with this name already exists", internal.ErrCodeDepartmentTaken)
	}

	now := time.Now()
	dept := &Department{
		Name:        dto.Name,
		Description: dto.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(dept); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, err
	}

	s.activity.Record(actor.ID, "department_created", fmt.Sprintf("department %q created", dept.Name))
	return dept, nil
}

func (s *Service) GetDepartment(id int64) (*Department, error) {
	dept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	return dept, nil
}

func (s *Service) ListDepartments() ([]*Department, error) {
	return s.repo.GetAll()
}

func (s *Service) UpdateDepartment(actor *auth.User, id int64, dto UpdateDepartmentDTO) (*Department, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only admins can update departments", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}

	if dto.Name != nil && *dto.Name != dept.Name {
		if existing, _ := s.repo.GetByName(*dto.Name); existing != nil {
			return nil, internal.NewConflictError("a department with this name already exists", internal.ErrCodeDepartmentTaken)
		}
		dept.Name = *dto.Name
	}
	if dto.Description != nil {
		dept.Description = *dto.Description
	}
	dept.UpdatedAt = time.Now()

	if err := s.repo.Update(dept); err != nil {
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return nil, err
	}

	s.activity.Record(actor.ID, "department_updated", fmt.Sprintf("department %q updated", dept.Name))
	return dept, nil
}

func (s *Service) DeleteDepartment(actor *auth.User, id int64) error {
	if !actor.IsAdmin() {
		return internal.NewForbiddenError("only admins can delete departments", internal.ErrCodeRoleDenied)
	}

	dept, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}

	count, err := s.repo.CountUsers(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return internal.NewValidationError("department still has members", internal.ErrCodeHasDependents)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete department", "error", err, "department_id", id)
		return err
	}

	s.activity.Record(actor.ID, "department_deleted", fmt.Sprintf("department %q deleted", dept.Name))
	return nil
}
