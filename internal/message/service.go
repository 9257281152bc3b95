package message

import (
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// Service handles messaging business logic
type Service struct {
	repo   Repository
	policy *auth.Policy
	logger *slog.Logger
}

func NewService(repo Repository, policy *auth.Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

func (s *Service) SendMessage(actor *auth.User, dto CreateMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	switch dto.Audience {
	case AudienceBroadcast:
		if !s.policy.CanBroadcast(actor) {
			return nil, internal.NewForbiddenError("only admins can broadcast", internal.ErrCodeRoleDenied)
		}
	case AudienceDepartment:
		if !s.policy.CanMessageDepartment(actor, dto.DepartmentID) {
			return nil, internal.NewForbiddenError("not allowed to message this department", internal.ErrCodeScopeViolation)
		}
	}

	msg := &Message{
		SenderID:     actor.ID,
		Audience:     dto.Audience,
		RecipientID:  dto.RecipientID,
		DepartmentID: dto.DepartmentID,
		Subject:      dto.Subject,
		Body:         dto.Body,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(msg); err != nil {
		s.logger.Error("failed to send message", "error", err, "sender_id", actor.ID)
		return nil, err
	}

	return msg, nil
}

// Inbox returns direct messages to the user, their department feed and
// broadcasts, newest first.
func (s *Service) Inbox(actor *auth.User) ([]*Message, error) {
	return s.repo.GetInbox(actor.ID, actor.DepartmentID)
}

func (s *Service) Sent(actor *auth.User) ([]*Message, error) {
	return s.repo.GetSent(actor.ID)
}

// Notify writes a system-generated direct message, used by other services
// for status-change notifications. Callers run it inside their own
// transaction via the repository they share.
func Notify(repo Repository, senderID, recipientID int64, subject, body string) error {
	return repo.Create(&Message{
		SenderID:    senderID,
		Audience:    AudienceDirect,
		RecipientID: &recipientID,
		Subject:     subject,
		Body:        body,
		CreatedAt:   time.Now(),
	})
}
