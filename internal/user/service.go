package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/core/common/credentials"
	userDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// maxUsernameAttempts bounds retries when a concurrent insert claims the generated username.
const maxUsernameAttempts = 3

type RepositoryAPI interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*userDatamodel.User, error)
	ListUsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context, filter ListFilter) ([]*userDatamodel.User, int64, error)
	Update(ctx context.Context, u *userDatamodel.User) error
}

type Service struct {
	repo       RepositoryAPI
	audit      audit.Recorder
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		audit:      recorder,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// CreateAccount provisions a user with a generated username and one-time password.
// Admins may create any role, HR may only create employees.
func (s *Service) CreateAccount(ctx context.Context, actor internal.Actor, dto CreateAccountDTO) (*AccountCreatedResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("account validation failed", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	if !canCreateRole(actor, dto.Role) {
		s.logger.Warn("account creation denied", "actor_id", actor.ID, "actor_role", actor.Role, "requested_role", dto.Role)
		return nil, internal.ErrUnauthorizedAccess
	}

	password, err := credentials.GeneratePassword()
	if err != nil {
		s.logger.Error("failed to generate password", "error", err)
		return nil, internal.NewInternalError("failed to generate password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		Phone:        dto.Phone,
		FullName:     dto.FullName,
		Role:         dto.Role,
		Status:       StatusActive,
		PasswordHash: string(hash),
	}

	for attempt := 1; ; attempt++ {
		existing, err := s.repo.ListUsernamesWithPrefix(ctx, credentials.BaseUsername(dto.FullName))
		if err != nil {
			s.logger.Error("failed to load existing usernames", "error", err)
			return nil, internal.NewInternalError("failed to create account", err)
		}

		row.ID = ""
		row.Username = credentials.GenerateUsername(dto.FullName, existing)

		err = s.repo.Create(ctx, row)
		if err == nil {
			break
		}

		if errors.Is(err, store.ErrUniqueViolation) {
			constraint := store.ViolatedConstraint(err)
			if strings.Contains(constraint, "email") {
				s.logger.Warn("email already registered", "email", dto.Email)
				return nil, emailTakenError()
			}
			if attempt < maxUsernameAttempts {
				s.logger.Info("username taken concurrently, regenerating", "username", row.Username, "attempt", attempt)
				continue
			}
			s.logger.Warn("username generation exhausted", "username", row.Username, "attempts", attempt)
			return nil, internal.NewUniqueConstraintError("could not allocate a unique username", "username", internal.ErrCodeUsernameGenerationExceeded)
		}

		s.logger.Error("failed to create user", "error", err, "username", row.Username)
		return nil, internal.NewInternalError("failed to create account", err)
	}

	created := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionUserCreated, audit.TargetUser, created.ID, map[string]interface{}{
		"username": created.Username,
		"role":     created.Role,
	}, audit.ActorRef(actor.ID))

	s.logger.Info("user account created", "user_id", created.ID, "username", created.Username, "role", created.Role, "actor_id", actor.ID)

	return &AccountCreatedResponse{User: created, InitialPassword: password}, nil
}

// FindActive loads a user for authentication; disabled accounts are rejected.
func (s *Service) FindActive(ctx context.Context, id string) (*User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

// FindByIDs returns the users that exist among ids.
func (s *Service) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	rows, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load users", "error", err, "count", len(ids))
		return nil, internal.NewInternalError("failed to load users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, actor internal.Actor, id string) (*User, error) {
	if actor.ID != id && !actor.IsStaff() {
		s.logger.Warn("user lookup denied", "actor_id", actor.ID, "user_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}
	return s.load(ctx, id)
}

func (s *Service) List(ctx context.Context, actor internal.Actor, filter ListFilter) (*ListResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("user listing denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrUnauthorizedAccess
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}

	return &ListResponse{Users: users, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// UpdateProfile lets users edit their own contact data; admins may edit anyone.
func (s *Service) UpdateProfile(ctx context.Context, actor internal.Actor, id string, dto UpdateProfileDTO) (*User, error) {
	if actor.ID != id && !actor.HasRole(internal.RoleAdmin) {
		s.logger.Warn("profile update denied", "actor_id", actor.ID, "user_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOrInternal(err, id)
	}

	changed := make([]string, 0, 3)
	if dto.FullName != nil {
		row.FullName = strings.TrimSpace(*dto.FullName)
		changed = append(changed, "full_name")
	}
	if dto.Email != nil {
		row.Email = strings.ToLower(strings.TrimSpace(*dto.Email))
		changed = append(changed, "email")
	}
	if dto.Phone != nil {
		row.Phone = strings.TrimSpace(*dto.Phone)
		changed = append(changed, "phone")
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, emailTakenError()
		}
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.audit.Record(ctx, audit.ActionUserUpdated, audit.TargetUser, id, map[string]interface{}{
		"fields": changed,
	}, audit.ActorRef(actor.ID))

	return FromDataModel(row), nil
}

func (s *Service) SetStatus(ctx context.Context, actor internal.Actor, id string, dto UpdateStatusDTO) (*User, error) {
	if !actor.HasRole(internal.RoleAdmin) {
		s.logger.Warn("status change denied", "actor_id", actor.ID, "user_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if actor.ID == id && dto.Status == StatusDisabled {
		return nil, internal.ErrCannotDisableSelf
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOrInternal(err, id)
	}

	from := row.Status
	row.Status = dto.Status
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update user status", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user status", err)
	}

	s.audit.Record(ctx, audit.ActionUserStatusChanged, audit.TargetUser, id, map[string]interface{}{
		"from": from,
		"to":   dto.Status,
	}, audit.ActorRef(actor.ID))

	s.logger.Info("user status changed", "user_id", id, "from", from, "to", dto.Status, "actor_id", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) ResetPassword(ctx context.Context, actor internal.Actor, id string) (*PasswordResetResponse, error) {
	if !actor.HasRole(internal.RoleAdmin) {
		s.logger.Warn("password reset denied", "actor_id", actor.ID, "user_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOrInternal(err, id)
	}

	password, err := credentials.GeneratePassword()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate password", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to store password hash", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to reset password", err)
	}

	s.audit.Record(ctx, audit.ActionPasswordReset, audit.TargetUser, id, nil, audit.ActorRef(actor.ID))

	return &PasswordResetResponse{UserID: id, Password: password}, nil
}

func (s *Service) load(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOrInternal(err, id)
	}
	return FromDataModel(row), nil
}

func (s *Service) notFoundOrInternal(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return internal.ErrUserNotFound
	}
	s.logger.Error("failed to load user", "error", err, "user_id", id)
	return internal.NewInternalError("failed to load user", err)
}

func canCreateRole(actor internal.Actor, role string) bool {
	switch actor.Role {
	case internal.RoleAdmin:
		return true
	case internal.RoleHR:
		return role == internal.RoleEmployee
	}
	return false
}

func emailTakenError() error {
	return internal.NewUniqueConstraintError("email is already registered", "email", internal.ErrCodeUniqueConstraintViolation)
}
