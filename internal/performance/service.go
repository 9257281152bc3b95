package performance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// UserDirectory resolves rated accounts. Satisfied by the auth
// repository.
type UserDirectory interface {
	GetUserByID(id int64) (*auth.User, error)
}

// Service handles performance log business logic. Logs are append-only.
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

// CreateLog lets admins rate anyone; managers only users in their own
// department.
func (s *Service) CreateLog(actor *auth.User, dto CreatePerformanceLogDTO) (*PerformanceLog, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, internal.NewForbiddenError("only admins and managers can record performance", internal.ErrCodeRoleDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	subject, err := s.users.GetUserByID(dto.UserID)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if actor.IsManager() && !actor.SameDepartment(subject.DepartmentID) {
		return nil, internal.NewForbiddenError("managers can only rate users within their department", internal.ErrCodeScopeViolation)
	}

	log := &PerformanceLog{
		UserID:      dto.UserID,
		TaskID:      dto.TaskID,
		Score:       dto.Score,
		Note:        dto.Note,
		CreatedByID: actor.ID,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(log); err != nil {
		s.logger.Error("failed to create performance log", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.activity.Record(actor.ID, "performance_recorded", fmt.Sprintf("performance score %d recorded for user %d", log.Score, log.UserID))
	return log, nil
}

// UserLogs returns the logs for one user: the user themselves, any
// admin, or a manager of the user's department.
func (s *Service) UserLogs(actor *auth.User, userID int64) ([]*PerformanceLog, error) {
	if actor.ID != userID {
		subject, err := s.users.GetUserByID(userID)
		if err != nil {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		canView := actor.IsAdmin() ||
			(actor.IsManager() && actor.SameDepartment(subject.DepartmentID))
		if !canView {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
	}
	return s.repo.GetByUser(userID)
}

// ListLogs returns all logs for admins and department logs for
// managers.
func (s *Service) ListLogs(actor *auth.User) ([]*PerformanceLog, error) {
	switch {
	case actor.IsAdmin():
		return s.repo.GetAll()
	case actor.IsManager() && actor.DepartmentID != nil:
		return s.repo.GetByDepartment(*actor.DepartmentID)
	default:
		return s.repo.GetByUser(actor.ID)
	}
}
