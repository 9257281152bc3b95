package program

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Service handles program business logic: projects and beneficiaries.
type Service struct {
	repo     RepositoryAPI
	policy   *auth.Policy
	activity activity.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, policy *auth.Policy, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		activity: recorder,
		logger:   logger,
	}
}

func (s *Service) CreateProject(actor *auth.User, dto CreateProjectDTO) (*Project, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage projects", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &Project{
		Name:        dto.Name,
		Description: dto.Description,
		Budget:      dto.Budget,
		Progress:    dto.Progress,
		StartDate:   dto.StartDate.Ptr(),
		EndDate:     dto.EndDate.Ptr(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateProject(project); err != nil {
		s.logger.Error("failed to create project", "error", err, "name", dto.Name)
		return nil, err
	}

	s.activity.Record(actor.ID, "project_created", fmt.Sprintf("project %q created", project.Name))
	return project, nil
}

func (s *Service) GetProject(id int64) (*Project, error) {
	project, err := s.repo.GetProjectByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("project not found", internal.ErrCodeRecordNotFound)
	}
	return project, nil
}

// ListProjects is readable by any authenticated user.
func (s *Service) ListProjects() ([]*Project, error) {
	return s.repo.GetProjects()
}

func (s *Service) UpdateProject(actor *auth.User, id int64, dto UpdateProjectDTO) (*Project, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage projects", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	project, err := s.repo.GetProjectByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("project not found", internal.ErrCodeRecordNotFound)
	}

	if dto.Name != nil {
		project.Name = *dto.Name
	}
	if dto.Description != nil {
		project.Description = dto.Description
	}
	if dto.Budget != nil {
		project.Budget = dto.Budget
	}
	if dto.Progress != nil {
		project.Progress = dto.Progress
	}
	if dto.StartDate != nil {
		project.StartDate = dto.StartDate.Ptr()
	}
	if dto.EndDate != nil {
		project.EndDate = dto.EndDate.Ptr()
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDate)
	}
	project.UpdatedAt = time.Now()

	if err := s.repo.UpdateProject(project); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, err
	}
	return project, nil
}

// DeleteProject refuses to remove a project that beneficiaries still
// reference. Reassign or delete the beneficiaries first.
func (s *Service) DeleteProject(actor *auth.User, id int64) error {
	if !s.policy.CanManageCatalog(actor) {
		return internal.NewForbiddenError("only admins and managers can manage projects", internal.ErrCodeRoleDenied)
	}

	project, err := s.repo.GetProjectByID(id)
	if err != nil {
		return internal.NewNotFoundError("project not found", internal.ErrCodeRecordNotFound)
	}

	count, err := s.repo.CountBeneficiaries(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return internal.NewValidationError("project still has registered beneficiaries", internal.ErrCodeHasDependents)
	}

	if err := s.repo.DeleteProject(id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return err
	}

	s.activity.Record(actor.ID, "project_deleted", fmt.Sprintf("project %q deleted", project.Name))
	return nil
}

func (s *Service) CreateBeneficiary(actor *auth.User, dto CreateBeneficiaryDTO) (*Beneficiary, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage beneficiaries", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.ProjectID != nil {
		if _, err := s.repo.GetProjectByID(*dto.ProjectID); err != nil {
			return nil, internal.NewNotFoundError("project not found", internal.ErrCodeRecordNotFound)
		}
	}

	now := time.Now()
	beneficiary := &Beneficiary{
		Name:      dto.Name,
		Contact:   dto.Contact,
		Notes:     dto.Notes,
		ProjectID: dto.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateBeneficiary(beneficiary); err != nil {
		s.logger.Error("failed to create beneficiary", "error", err, "name", dto.Name)
		return nil, err
	}

	s.activity.Record(actor.ID, "beneficiary_created", fmt.Sprintf("beneficiary %q registered", beneficiary.Name))
	return beneficiary, nil
}

func (s *Service) GetBeneficiary(id int64) (*Beneficiary, error) {
	beneficiary, err := s.repo.GetBeneficiaryByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("beneficiary not found", internal.ErrCodeRecordNotFound)
	}
	return beneficiary, nil
}

// ListBeneficiaries is readable by any authenticated user.
func (s *Service) ListBeneficiaries() ([]*Beneficiary, error) {
	return s.repo.GetBeneficiaries()
}

func (s *Service) UpdateBeneficiary(actor *auth.User, id int64, dto UpdateBeneficiaryDTO) (*Beneficiary, error) {
	if !s.policy.CanManageCatalog(actor) {
		return nil, internal.NewForbiddenError("only admins and managers can manage beneficiaries", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	beneficiary, err := s.repo.GetBeneficiaryByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("beneficiary not found", internal.ErrCodeRecordNotFound)
	}

	if dto.Name != nil {
		beneficiary.Name = *dto.Name
	}
	if dto.Contact != nil {
		beneficiary.Contact = dto.Contact
	}
	if dto.Notes != nil {
		beneficiary.Notes = dto.Notes
	}
	if dto.ProjectID != nil {
		if _, err := s.repo.GetProjectByID(*dto.ProjectID); err != nil {
			return nil, internal.NewNotFoundError("project not found", internal.ErrCodeRecordNotFound)
		}
		beneficiary.ProjectID = dto.ProjectID
	}
	beneficiary.UpdatedAt = time.Now()

	if err := s.repo.UpdateBeneficiary(beneficiary); err != nil {
		s.logger.Error("failed to update beneficiary", "error", err, "beneficiary_id", id)
		return nil, err
	}
	return beneficiary, nil
}

func (s *Service) DeleteBeneficiary(actor *auth.User, id int64) error {
	if !s.policy.CanManageCatalog(actor) {
		return internal.NewForbiddenError("only admins and managers can manage beneficiaries", internal.ErrCodeRoleDenied)
	}
	beneficiary, err := s.repo.GetBeneficiaryByID(id)
	if err != nil {
		return internal.NewNotFoundError("beneficiary not found", internal.ErrCodeRecordNotFound)
	}
	if err := s.repo.DeleteBeneficiary(id); err != nil {
		s.logger.Error("failed to delete beneficiary", "error", err, "beneficiary_id", id)
		return err
	}
	s.activity.Record(actor.ID, "beneficiary_deleted", fmt.Sprintf("beneficiary %q deleted", beneficiary.Name))
	return nil
}
