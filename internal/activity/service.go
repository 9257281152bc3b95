package activity

import (
	"log/slog"
	"strings"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Service handles activity log business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an entry without failing the calling operation.
func (s *Service) Record(actorID int64, action, detail string) {
	entry := &ActivityLog{
		UserID:    actorID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to record activity", "error", err, "actor_id", actorID, "action", action)
	}
}

// CreateManual lets an admin write an explicit entry.
func (s *Service) CreateManual(actor *auth.User, dto CreateActivityDTO) (*ActivityLog, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only admins can create activity entries", internal.ErrCodeRoleDenied)
	}
	if strings.TrimSpace(dto.Action) == "" {
		return nil, internal.NewValidationError("action is required", internal.ErrCodeMissingField)
	}

	entry := &ActivityLog{
		UserID:    actor.ID,
		Action:    dto.Action,
		Detail:    dto.Detail,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to create activity entry", "error", err, "actor_id", actor.ID)
		return nil, err
	}
	return entry, nil
}

// List returns recent entries: admins get the full feed, managers only
// entries by actors in their own department.
func (s *Service) List(actor *auth.User) ([]*ActivityLog, error) {
	switch {
	case actor.IsAdmin():
		return s.repo.GetRecent(ListLimit)
	case actor.IsManager() && actor.DepartmentID != nil:
		return s.repo.GetRecentByDepartment(*actor.DepartmentID, ListLimit)
	default:
		return nil, internal.NewForbiddenError("activity feed is restricted to admins and managers", internal.ErrCodeRoleDenied)
	}
}
