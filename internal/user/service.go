package user

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	"github.com/opsarif/ngo-erp/internal/auth"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// SessionRevoker invalidates every refresh token an account holds.
type SessionRevoker interface {
	RevokeAllForUser(userID int64) error
}

// Service handles user account business logic
type Service struct {
	repo     Repository
	policy   *auth.Policy
	hasher   PasswordHasher
	sessions SessionRevoker
	activity activity.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, policy *auth.Policy, hasher PasswordHasher, sessions SessionRevoker, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		hasher:   hasher,
		sessions: sessions,
		activity: recorder,
		logger:   logger,
	}
}

func (s *Service) CreateUser(actor *auth.User, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.policy.CanCreateUser(actor, dto.Role, dto.DepartmentID); err != nil {
		return nil, err
	}

	if existing, _ := s.repo.GetByEmail(dto.Email); existing != nil {
		return nil, internal.NewConflictError("email is already registered", internal.ErrCodeEmailTaken)
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	now := time.Now()
	user := &User{
		FullName:     dto.FullName,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		DepartmentID: dto.DepartmentID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.activity.Record(actor.ID, "user_created", fmt.Sprintf("user %q (%s) created", user.FullName, user.Role))
	return user, nil
}

// GetUser returns a single account. Reads outside the actor's scope come
// back as NotFound so record existence never leaks.
func (s *Service) GetUser(actor *auth.User, id int64) (*User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	if !s.policy.CanViewRecord(actor, user.ID, user.DepartmentID) {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return user, nil
}

// ListUsers returns all accounts for admins, department members otherwise.
func (s *Service) ListUsers(actor *auth.User) ([]*User, error) {
	if actor.IsAdmin() {
		return s.repo.GetAll()
	}
	if actor.DepartmentID == nil {
		return []*User{}, nil
	}
	return s.repo.GetByDepartment(*actor.DepartmentID)
}

func (s *Service) UpdateUser(actor *auth.User, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	if err := s.policy.CanModifyUser(actor, user.Role, user.DepartmentID); err != nil {
		return nil, err
	}

	// Role escalation goes through the same gate as creation.
	if dto.Role != nil && *dto.Role != user.Role {
		if err := s.policy.CanCreateUser(actor, *dto.Role, user.DepartmentID); err != nil {
			return nil, err
		}
		user.Role = *dto.Role
	}

	if dto.Email != nil && *dto.Email != user.Email {
		if existing, _ := s.repo.GetByEmail(*dto.Email); existing != nil {
			return nil, internal.NewConflictError("email is already registered", internal.ErrCodeEmailTaken)
		}
		user.Email = *dto.Email
	}
	if dto.FullName != nil {
		user.FullName = *dto.FullName
	}
	if dto.Password != nil {
		hash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to update user", err)
		}
		user.PasswordHash = hash
	}
	if dto.DepartmentID != nil {
		if !actor.IsAdmin() {
			return nil, internal.NewForbiddenError("only admins can move users between departments", internal.ErrCodeRoleDenied)
		}
		user.DepartmentID = dto.DepartmentID
	}
	if dto.IsActive != nil {
		user.IsActive = *dto.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(user); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.activity.Record(actor.ID, "user_updated", fmt.Sprintf("user %q updated", user.FullName))
	return user, nil
}

func (s *Service) DeleteUser(actor *auth.User, id int64) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	if err := s.policy.CanModifyUser(actor, user.Role, user.DepartmentID); err != nil {
		return err
	}

	open, err := s.repo.CountOpenTasks(id)
	if err != nil {
		return err
	}
	if open > 0 {
		return internal.NewValidationError("user still has open tasks assigned", internal.ErrCodeHasDependents)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}
	if err := s.sessions.RevokeAllForUser(id); err != nil {
		s.logger.Error("failed to revoke sessions for deleted user", "error", err, "user_id", id)
		return err
	}

	s.activity.Record(actor.ID, "user_deleted", fmt.Sprintf("user %q deleted", user.FullName))
	return nil
}
