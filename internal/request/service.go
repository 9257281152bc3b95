package request

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

// Service handles request ticket business logic
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

// CreateRequest opens a generic ticket. The created audit row lands in the
// same transaction as the ticket itself.
func (s *Service) CreateRequest(actor *auth.User, dto CreateRequestDTO) (*RequestTicket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.open(actor, dto.Type, dto.Payload)
}

// CreateLeaveRequest opens a leave ticket with a validated structured
// payload.
func (s *Service) CreateLeaveRequest(actor *auth.User, dto LeaveRequestDTO) (*RequestTicket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	payload, err := dto.Marshal()
	if err != nil {
		return nil, err
	}
	return s.open(actor, TypeLeave, payload)
}

func (s *Service) CreateProcurementRequest(actor *auth.User, dto ProcurementRequestDTO) (*RequestTicket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	payload, err := dto.Marshal()
	if err != nil {
		return nil, err
	}
	return s.open(actor, TypeProcurement, payload)
}

func (s *Service) CreateTravelRequest(actor *auth.User, dto TravelRequestDTO) (*RequestTicket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	payload, err := dto.Marshal()
	if err != nil {
		return nil, err
	}
	return s.open(actor, TypeTravel, payload)
}

func (s *Service) open(actor *auth.User, ticketType, payload string) (*RequestTicket, error) {
	now := time.Now()
	ticket := &RequestTicket{
		RequesterID:  actor.ID,
		DepartmentID: actor.DepartmentID,
		Type:         ticketType,
		Payload:      payload,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	audit := &RequestAudit{
		Action:    AuditCreated,
		ActorID:   actor.ID,
		CreatedAt: now,
	}

	if err := s.repo.CreateWithAudit(ticket, audit); err != nil {
		s.logger.Error("failed to create request ticket", "error", err, "requester_id", actor.ID)
		return nil, err
	}

	s.activity.Record(actor.ID, "request_created", fmt.Sprintf("%s request %d opened", ticketType, ticket.ID))
	return ticket, nil
}

// GetRequest loads one ticket within the caller's visibility. Out-of-scope
// tickets come back as NotFound.
func (s *Service) GetRequest(actor *auth.User, id int64) (*RequestTicket, error) {
	ticket, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	s.stampPinned(actor, ticket)
	return ticket, nil
}

// ListRequests applies the visibility rule: requester always, admin all,
// manager same department.
func (s *Service) ListRequests(actor *auth.User) ([]*RequestTicket, error) {
	var (
		tickets []*RequestTicket
		err     error
	)

	switch {
	case actor.IsAdmin():
		tickets, err = s.repo.GetAll()
	case actor.IsManager() && actor.DepartmentID != nil:
		tickets, err = s.repo.GetByDepartment(*actor.DepartmentID)
	default:
		tickets, err = s.repo.GetByRequester(actor.ID)
	}
	if err != nil {
		return nil, err
	}

	for _, t := range tickets {
		s.stampPinned(actor, t)
	}
	return tickets, nil
}

// UpdateStatus transitions a pending ticket to approved or rejected. The
// conditional update, the audit row and the requester notification commit
// together; a concurrent second transition fails with InvalidTransition.
func (s *Service) UpdateStatus(actor *auth.User, id int64, dto UpdateStatusDTO) (*RequestTicket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanRespondToRequest(actor, ticket.DepartmentID); err != nil {
		return nil, err
	}

	audit := &RequestAudit{
		RequestID:  ticket.ID,
		Action:     AuditStatusChange,
		FromStatus: StatusPending,
		ToStatus:   dto.Status,
		ActorID:    actor.ID,
		CreatedAt:  time.Now(),
	}
	notify := &Notification{
		SenderID:    actor.ID,
		RecipientID: ticket.RequesterID,
		Subject:     fmt.Sprintf("Your %s request was %s", ticket.Type, dto.Status),
		Body:        fmt.Sprintf("Request #%d has been %s.", ticket.ID, dto.Status),
	}

	if err := s.repo.Transition(ticket.ID, dto.Status, audit, notify); err != nil {
		if err == ErrNotPending {
			return nil, internal.NewInvalidTransitionError("request is already resolved", internal.ErrCodeTicketResolved)
		}
		s.logger.Error("failed to transition request", "error", err, "request_id", id)
		return nil, err
	}

	s.activity.Record(actor.ID, "request_resolved", fmt.Sprintf("request %d %s", ticket.ID, dto.Status))
	return s.GetRequest(actor, id)
}

// Respond sends a direct message to the requester and optionally performs
// the same transition inline. Responding to a resolved ticket with a
// status supplied fails with InvalidTransition; a bare response is always
// allowed.
func (s *Service) Respond(actor *auth.User, id int64, dto RespondDTO) (*RequestTicket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanRespondToRequest(actor, ticket.DepartmentID); err != nil {
		return nil, err
	}

	audit := &RequestAudit{
		RequestID: ticket.ID,
		Action:    AuditResponded,
		ActorID:   actor.ID,
		Note:      dto.Subject,
		CreatedAt: time.Now(),
	}
	notify := &Notification{
		SenderID:    actor.ID,
		RecipientID: ticket.RequesterID,
		Subject:     dto.Subject,
		Body:        dto.Body,
	}

	if dto.Status != nil {
		audit.FromStatus = StatusPending
		audit.ToStatus = *dto.Status
		if err := s.repo.Transition(ticket.ID, *dto.Status, audit, notify); err != nil {
			if err == ErrNotPending {
				return nil, internal.NewInvalidTransitionError("request is already resolved", internal.ErrCodeTicketResolved)
			}
			s.logger.Error("failed to respond with transition", "error", err, "request_id", id)
			return nil, err
		}
	} else {
		if err := s.repo.Respond(audit, notify); err != nil {
			s.logger.Error("failed to respond to request", "error", err, "request_id", id)
			return nil, err
		}
	}

	s.activity.Record(actor.ID, "request_responded", fmt.Sprintf("responded to request %d", ticket.ID))
	return s.GetRequest(actor, id)
}

// Audit returns the append-only trail, newest first.
func (s *Service) Audit(actor *auth.User, id int64) ([]*RequestAudit, error) {
	if _, err := s.loadVisible(actor, id); err != nil {
		return nil, err
	}
	return s.repo.GetAudit(id)
}

// AddAttachment is permitted for the requester and for admins/managers in
// scope, regardless of ticket status. The file hits disk before the row so
// a failed insert leaves no dangling reference.
func (s *Service) AddAttachment(actor *auth.User, id int64, filename string, src io.Reader, size int64) (*Attachment, error) {
	ticket, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if !s.canAttach(actor, ticket) {
		return nil, internal.NewForbiddenError("not allowed to attach files to this request", internal.ErrCodeScopeViolation)
	}

	storedName, err := s.store.Save(filename, src, size)
	if err != nil {
		return nil, err
	}

	att := &Attachment{
		RequestID:  ticket.ID,
		Filename:   filename,
		StoredName: storedName,
		UploaderID: actor.ID,
		UploadedAt: time.Now(),
	}
	if err := s.repo.CreateAttachment(att); err != nil {
		s.logger.Error("failed to save attachment row, removing file", "error", err, "stored_name", storedName)
		if rmErr := s.store.Remove(storedName); rmErr != nil {
			s.logger.Error("failed to remove orphaned attachment", "error", rmErr, "stored_name", storedName)
		}
		return nil, err
	}

	return att, nil
}

func (s *Service) ListAttachments(actor *auth.User, id int64) ([]*Attachment, error) {
	if _, err := s.loadVisible(actor, id); err != nil {
		return nil, err
	}
	return s.repo.GetAttachments(id)
}

// OpenAttachment resolves an attachment and streams its file, applying the
// same read scope as the ticket itself.
func (s *Service) OpenAttachment(actor *auth.User, attachmentID int64) (*Attachment, io.ReadCloser, error) {
	att, err := s.repo.GetAttachmentByID(attachmentID)
	if err != nil {
		return nil, nil, internal.NewNotFoundError("attachment not found", internal.ErrCodeRecordNotFound)
	}
	if _, err := s.loadVisible(actor, att.RequestID); err != nil {
		return nil, nil, internal.NewNotFoundError("attachment not found", internal.ErrCodeRecordNotFound)
	}

	rc, err := s.store.Open(att.StoredName)
	if err != nil {
		return nil, nil, err
	}
	return att, rc, nil
}

func (s *Service) loadVisible(actor *auth.User, id int64) (*RequestTicket, error) {
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("request not found", internal.ErrCodeRequestNotFound)
	}

	visible := ticket.RequesterID == actor.ID ||
		actor.IsAdmin() ||
		(actor.IsManager() && actor.SameDepartment(ticket.DepartmentID))
	if !visible {
		return nil, internal.NewNotFoundError("request not found", internal.ErrCodeRequestNotFound)
	}
	return ticket, nil
}

func (s *Service) canAttach(actor *auth.User, ticket *RequestTicket) bool {
	if ticket.RequesterID == actor.ID || actor.IsAdmin() {
		return true
	}
	return actor.IsManager() && actor.SameDepartment(ticket.DepartmentID)
}

// stampPinned derives the pinned flag: the requester is an admin and the
// ticket sits in the viewer's department.
func (s *Service) stampPinned(viewer *auth.User, ticket *RequestTicket) {
	ticket.Pinned = ticket.RequesterRole == string(auth.RoleAdmin) &&
		viewer.SameDepartment(ticket.DepartmentID)
}
