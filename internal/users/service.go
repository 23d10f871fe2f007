package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	dbtypes "github.com/moviemaestro/moviemaestro-backend/pkg/db/types"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/security"
)

// Service defines the behavior needed by the users controllers.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	List(ctx context.Context, caller Caller) ([]*UserDTO, error)
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, caller Caller, id uuid.UUID, input UpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, caller Caller, id uuid.UUID) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo           userRepository
	PasswordConfig config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		repo:        params.Repo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, input.toModel(passwordHash))
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

// List returns every account for admins. Other callers get only the record
// matching their own email, without the admin flag.
func (s *service) List(ctx context.Context, caller Caller) ([]*UserDTO, error) {
	if caller.IsAdmin {
		all, err := s.repo.List(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
		}
		return FromModels(all), nil
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(caller.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*UserDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return []*UserDTO{FromModel(user).SelfProjection()}, nil
}

func (s *service) Get(ctx context.Context, caller Caller, id uuid.UUID) (*UserDTO, error) {
	if !caller.CanActOn(id) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another account")
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, caller Caller, id uuid.UUID, input UpdateInput) (*UserDTO, error) {
	if !caller.CanActOn(id) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another account")
	}
	if input.Email != nil {
		normalized := normalizeEmail(*input.Email)
		input.Email = &normalized
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.IsAdmin != nil && !caller.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot change admin flag")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(user, input)
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.CanActOn(id) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func applyUpdate(user *models.User, input UpdateInput) {
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Language != nil {
		user.Language = input.Language
	}
	if input.Region != nil {
		user.Region = input.Region
	}
	if input.StreamingPlatform != nil {
		user.StreamingPlatform = dbtypes.OptionPairList(*input.StreamingPlatform)
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
