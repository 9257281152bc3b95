package event

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

const defaultMeetingDescription = "Team meeting"

// Service handles event business logic
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

// CreateEvent: admins post anywhere, managers only to their own department
// or the shared feed.
func (s *Service) CreateEvent(actor *auth.User, dto CreateEventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, internal.NewForbiddenError("only admins and managers can create events", internal.ErrCodeRoleDenied)
	}
	if actor.IsManager() && dto.DepartmentID != nil && !actor.SameDepartment(dto.DepartmentID) {
		return nil, internal.NewForbiddenError("managers can only post events to their own department", internal.ErrCodeScopeViolation)
	}

	now := time.Now()
	event := &Event{
		Title:        dto.Title,
		Description:  dto.Description,
		ScheduledAt:  dto.ScheduledAt,
		DepartmentID: dto.DepartmentID,
		CreatedByID:  actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(event); err != nil {
		s.logger.Error("failed to create event", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.activity.Record(actor.ID, "event_created", fmt.Sprintf("event %q scheduled", event.Title))
	return event, nil
}

// CreateMeeting lets any authenticated user schedule an event in their own
// department, or shared if requested.
func (s *Service) CreateMeeting(actor *auth.User, dto CreateMeetingDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	description := dto.Description
	if description == "" {
		description = defaultMeetingDescription
	}

	var deptID *int64
	if !dto.Shared {
		deptID = actor.DepartmentID
	}

	now := time.Now()
	event := &Event{
		Title:        dto.Title,
		Description:  description,
		ScheduledAt:  dto.ScheduledAt,
		DepartmentID: deptID,
		CreatedByID:  actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(event); err != nil {
		s.logger.Error("failed to create meeting", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.activity.Record(actor.ID, "meeting_created", fmt.Sprintf("meeting %q scheduled", event.Title))
	return event, nil
}

func (s *Service) SharedEvents() ([]*Event, error) {
	return s.repo.GetShared()
}

func (s *Service) DepartmentEvents(actor *auth.User) ([]*Event, error) {
	if actor.DepartmentID == nil {
		return []*Event{}, nil
	}
	return s.repo.GetByDepartment(*actor.DepartmentID)
}

func (s *Service) UpdateEvent(actor *auth.User, id int64, dto UpdateEventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	event, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.canManage(actor, event); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		event.Title = *dto.Title
	}
	if dto.Description != nil {
		event.Description = *dto.Description
	}
	if dto.ScheduledAt != nil {
		event.ScheduledAt = *dto.ScheduledAt
	}
	event.UpdatedAt = time.Now()

	if err := s.repo.Update(event); err != nil {
		s.logger.Error("failed to update event", "error", err, "event_id", id)
		return nil, err
	}
	return event, nil
}

func (s *Service) DeleteEvent(actor *auth.User, id int64) error {
	event, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.canManage(actor, event); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete event", "error", err, "event_id", id)
		return err
	}

	s.activity.Record(actor.ID, "event_deleted", fmt.Sprintf("event %q deleted", event.Title))
	return nil
}

func (s *Service) load(id int64) (*Event, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("event not found", internal.ErrCodeEventNotFound)
	}
	return event, nil
}

// canManage: admins manage any event; managers manage their department's
// events and their own shared ones.
func (s *Service) canManage(actor *auth.User, event *Event) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsManager() {
		return internal.NewForbiddenError("only admins and managers can modify events", internal.ErrCodeRoleDenied)
	}
	if event.Shared() {
		if event.CreatedByID == actor.ID {
			return nil
		}
		return internal.NewForbiddenError("managers cannot modify shared events they did not create", internal.ErrCodeScopeViolation)
	}
	if !actor.SameDepartment(event.DepartmentID) {
		return internal.NewForbiddenError("managers can only modify events in their own department", internal.ErrCodeScopeViolation)
	}
	return nil
}
