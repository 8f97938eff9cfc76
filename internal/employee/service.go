package employee

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	employeeDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"github.com/frahmantamala/recruitment-management/internal/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
	GetByUserID(ctx context.Context, userID string) (*employeeDatamodel.Employee, error)
	List(ctx context.Context, limit, offset int) ([]*employeeDatamodel.Employee, int64, error)
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
}

type CandidateFinder interface {
	Find(ctx context.Context, id string) (*candidate.Candidate, error)
}

type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []string) ([]*user.User, error)
}

type Service struct {
	repo       RepositoryAPI
	candidates CandidateFinder
	users      UserDirectory
	audit      audit.Recorder
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, candidates CandidateFinder, users UserDirectory, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		users:      users,
		audit:      recorder,
		logger:     logger,
	}
}

// Create records an employee profile. Staff may file it for anyone; an employee
// may only file their own, so the user id is taken from the caller.
func (s *Service) Create(ctx context.Context, actor internal.Actor, dto CreateEmployeeDTO) (*Employee, error) {
	switch {
	case actor.IsStaff():
	case actor.HasRole(internal.RoleEmployee):
		self := actor.ID
		dto.UserID = &self
	default:
		return nil, internal.ErrUnauthorizedAccess
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.CandidateID != nil {
		c, err := s.candidates.Find(ctx, *dto.CandidateID)
		if err != nil {
			return nil, err
		}
		if c.Status != candidate.StatusOffered && c.Status != candidate.StatusHired {
			s.logger.Info("employee profile for candidate not hired", "candidate_id", c.ID, "status", c.Status)
			return nil, internal.ErrCandidateNotHired
		}
	}

	if dto.UserID != nil {
		if err := s.ensureUser(ctx, *dto.UserID); err != nil {
			return nil, err
		}
		if _, err := s.repo.GetByUserID(ctx, *dto.UserID); err == nil {
			return nil, internal.ErrEmployeeProfileExists
		} else if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to check employee profile", "error", err, "user_id", *dto.UserID)
			return nil, internal.NewInternalError("failed to create employee", err)
		}
	}

	row := &employeeDatamodel.Employee{
		UserID:           dto.UserID,
		CandidateID:      dto.CandidateID,
		PlaceOfResidence: dto.PlaceOfResidence,
		Hometown:         dto.Hometown,
		NationalID:       dto.NationalID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError(err, "failed to create employee")
	}

	s.audit.Record(ctx, audit.ActionEmployeeCreated, audit.TargetEmployee, row.ID, map[string]interface{}{
		"user_id":      row.UserID,
		"candidate_id": row.CandidateID,
	}, audit.ActorRef(actor.ID))

	s.logger.Info("employee created", "employee_id", row.ID, "actor_id", actor.ID)
	return FromDataModel(row), nil
}

// Update lets the owning user or staff edit personal details.
func (s *Service) Update(ctx context.Context, actor internal.Actor, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !FromDataModel(row).OwnedBy(actor.ID) {
		s.logger.Warn("employee update denied", "actor_id", actor.ID, "employee_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changed := make([]string, 0, 3)
	if dto.PlaceOfResidence != nil {
		row.PlaceOfResidence = *dto.PlaceOfResidence
		changed = append(changed, "place_of_residence")
	}
	if dto.Hometown != nil {
		row.Hometown = *dto.Hometown
		changed = append(changed, "hometown")
	}
	if dto.NationalID != nil {
		row.NationalID = dto.NationalID
		changed = append(changed, "national_id")
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError(err, "failed to update employee")
	}

	s.audit.Record(ctx, audit.ActionEmployeeUpdated, audit.TargetEmployee, id, map[string]interface{}{
		"fields": changed,
	}, audit.ActorRef(actor.ID))

	return FromDataModel(row), nil
}

// LinkUser attaches a provisioned account to an employee record.
func (s *Service) LinkUser(ctx context.Context, actor internal.Actor, id string, dto LinkUserDTO) (*Employee, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}

	userID := strings.TrimSpace(dto.UserID)
	if userID == "" {
		return nil, internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	row.UserID = &userID
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError(err, "failed to link user")
	}

	s.audit.Record(ctx, audit.ActionEmployeeUpdated, audit.TargetEmployee, id, map[string]interface{}{
		"user_id": userID,
	}, audit.ActorRef(actor.ID))

	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, actor internal.Actor, id string) (*Employee, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	e := FromDataModel(row)
	if !actor.IsStaff() && !e.OwnedBy(actor.ID) {
		return nil, internal.ErrUnauthorizedAccess
	}
	return e, nil
}

func (s *Service) GetMine(ctx context.Context, actor internal.Actor) (*Employee, error) {
	row, err := s.repo.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load employee", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, actor internal.Actor, limit, offset int) (*ListResponse, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}

	rows, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}
	return &ListResponse{Employees: employees, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) ensureUser(ctx context.Context, userID string) error {
	users, err := s.users.FindByIDs(ctx, []string{userID})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	return row, nil
}

func (s *Service) writeError(err error, message string) error {
	if errors.Is(err, store.ErrUniqueViolation) {
		constraint := store.ViolatedConstraint(err)
		if strings.Contains(constraint, "user_id") {
			return internal.ErrEmployeeProfileExists
		}
		return internal.NewUniqueConstraintError("national_id is already registered", "national_id", internal.ErrCodeUniqueConstraintViolation)
	}
	s.logger.Error(message, "error", err)
	return internal.NewInternalError(message, err)
}
