package grant

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// UserDirectory resolves grantee accounts. Satisfied by the auth
// repository.
type UserDirectory interface {
	GetUserByID(id int64) (*auth.User, error)
}

// Service handles access grant business logic.
type Service struct {
	repo     RepositoryAPI
	users    UserDirectory
	activity activity.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		activity: recorder,
		logger:   logger,
	}
}

// CreateGrant lets admins grant anywhere; managers may only grant to
// users inside their own department.
func (s *Service) CreateGrant(actor *auth.User, dto CreateGrantDTO) (*AccessGrant, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, internal.NewForbiddenError("only admins and managers can grant access", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	grantee, err := s.users.GetUserByID(dto.UserID)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if actor.IsManager() && !actor.SameDepartment(grantee.DepartmentID) {
		return nil, internal.NewForbiddenError("managers can only grant access within their department", internal.ErrCodeScopeViolation)
	}

	departmentID := dto.DepartmentID
	if departmentID == nil {
		departmentID = grantee.DepartmentID
	}

	g := &AccessGrant{
		UserID:       dto.UserID,
		ResourceType: dto.ResourceType,
		ResourceID:   dto.ResourceID,
		Permission:   Permission(dto.Permission),
		DepartmentID: departmentID,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(g); err != nil {
		s.logger.Error("failed to create access grant", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.activity.Record(actor.ID, "access_granted",
		fmt.Sprintf("%s access on %s %d granted to user %d", g.Permission, g.ResourceType, g.ResourceID, g.UserID))
	return g, nil
}

// ListGrants scopes results by role: admins see all grants, managers
// their department, everyone else only their own.
func (s *Service) ListGrants(actor *auth.User) ([]*AccessGrant, error) {
	switch {
	case actor.IsAdmin():
		return s.repo.GetAll()
	case actor.IsManager() && actor.DepartmentID != nil:
		return s.repo.GetByDepartment(*actor.DepartmentID)
	default:
		return s.repo.GetByUser(actor.ID)
	}
}

func (s *Service) DeleteGrant(actor *auth.User, id int64) error {
	g, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("access grant not found", internal.ErrCodeRecordNotFound)
	}

	canDelete := actor.IsAdmin() ||
		(actor.IsManager() && actor.SameDepartment(g.DepartmentID))
	if !canDelete {
		return internal.NewNotFoundError("access grant not found", internal.ErrCodeRecordNotFound)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete access grant", "error", err, "grant_id", id)
		return err
	}

	s.activity.Record(actor.ID, "access_revoked",
		fmt.Sprintf("%s access on %s %d revoked for user %d", g.Permission, g.ResourceType, g.ResourceID, g.UserID))
	return nil
}
