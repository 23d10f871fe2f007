package lists

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moviemaestro/moviemaestro-backend/internal/users"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	dbtypes "github.com/moviemaestro/moviemaestro-backend/pkg/db/types"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
)

// Selector names one of the two media lists on an account.
type Selector string

const (
	SelectorWatchList Selector = "watchList"
	SelectorWishList  Selector = "wishList"
)

// casMaxAttempts bounds the retry loop when concurrent writers race on the
// same account's lists.
const casMaxAttempts = 3

// ParseSelector maps a route segment onto a list selector.
func ParseSelector(raw string) (Selector, error) {
	switch Selector(raw) {
	case SelectorWatchList:
		return SelectorWatchList, nil
	case SelectorWishList:
		return SelectorWishList, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeNotFound, "unknown list").
		WithDetails(map[string]any{"list": raw})
}

// Service mutates the watch and wish lists on a user account.
type Service interface {
	Add(ctx context.Context, caller users.Caller, userID uuid.UUID, sel Selector, input EntryInput) (*users.UserDTO, error)
	Remove(ctx context.Context, caller users.Caller, userID uuid.UUID, sel Selector, input RemoveInput) (*users.UserDTO, error)
}

type listRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLists(ctx context.Context, id uuid.UUID, version int64, watch, wish dbtypes.MediaList) (bool, error)
}

type service struct {
	repo listRepository
}

// ServiceParams bundles the dependencies required to build a lists service.
type ServiceParams struct {
	Repo listRepository
}

// NewService constructs a lists service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("list repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Add(ctx context.Context, caller users.Caller, userID uuid.UUID, sel Selector, input EntryInput) (*users.UserDTO, error) {
	if !caller.CanActOn(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another account")
	}

	return s.mutate(ctx, userID, func(user *models.User) error {
		list := selectList(user, sel)

		// Duplicate detection runs before field validation, matching the
		// order clients observe: a resend of an already-saved entry gets
		// a conflict even if other fields are mangled.
		if input.OriginalTitle != nil && list.ContainsTitle(*input.OriginalTitle) {
			return pkgerrors.New(pkgerrors.CodeDuplicateEntry, "entry already present").
				WithDetails(map[string]any{"original_title": *input.OriginalTitle, "list": string(sel)})
		}
		if err := validateEntry(input); err != nil {
			return err
		}

		setList(user, sel, append(list, input.toEntry()))
		return nil
	})
}

func (s *service) Remove(ctx context.Context, caller users.Caller, userID uuid.UUID, sel Selector, input RemoveInput) (*users.UserDTO, error) {
	if !caller.CanActOn(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another account")
	}
	if err := validateEntry(input); err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(user *models.User) error {
		list := selectList(user, sel)
		remaining, removed := list.WithoutTitle(input.OriginalTitle)
		if !removed {
			return pkgerrors.New(pkgerrors.CodeNotFound, "entry not in list").
				WithDetails(map[string]any{"original_title": input.OriginalTitle, "list": string(sel)})
		}
		setList(user, sel, remaining)
		return nil
	})
}

// mutate runs the read-modify-write cycle under optimistic concurrency
// control, retrying when another writer advanced the list version first.
func (s *service) mutate(ctx context.Context, userID uuid.UUID, apply func(*models.User) error) (*users.UserDTO, error) {
	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}

		if err := apply(user); err != nil {
			return nil, err
		}

		ok, err := s.repo.UpdateLists(ctx, userID, user.ListVersion, user.WatchList, user.WishList)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update lists")
		}
		if ok {
			user.ListVersion++
			return users.FromModel(user), nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "list changed concurrently, retry the request")
}

func selectList(user *models.User, sel Selector) dbtypes.MediaList {
	if sel == SelectorWishList {
		return user.WishList
	}
	return user.WatchList
}

func setList(user *models.User, sel Selector, list dbtypes.MediaList) {
	if sel == SelectorWishList {
		user.WishList = list
		return
	}
	user.WatchList = list
}

var entryValidate = newEntryValidator()

func newEntryValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func validateEntry(input any) error {
	err := entryValidate.Struct(input)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			if fieldErr.Tag() == "required" {
				details[fieldErr.Field()] = "is required"
				continue
			}
			details[fieldErr.Field()] = "is invalid"
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}
