package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	dbtypes "github.com/moviemaestro/moviemaestro-backend/pkg/db/types"
	"github.com/moviemaestro/moviemaestro-backend/pkg/types"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Language          *types.OptionPair  `json:"language,omitempty"`
	Region            *types.OptionPair  `json:"region,omitempty"`
	StreamingPlatform []types.OptionPair `json:"streamingPlatform"`
	WatchList         []types.MediaEntry `json:"watchList"`
	WishList          []types.MediaEntry `json:"wishList"`
	IsAdmin           *bool              `json:"isAdmin,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// SelfProjection hides the admin flag, for non-admin callers reading their
// own record.
func (d *UserDTO) SelfProjection() *UserDTO {
	if d == nil {
		return nil
	}
	d.IsAdmin = nil
	return d
}

// RegisterInput is the payload accepted when creating an account. The admin
// flag is deliberately absent: new accounts are never privileged, and the
// strict decoder rejects payloads that try to smuggle one in.
type RegisterInput struct {
	Name              string             `json:"name" validate:"required,min=3,max=50"`
	Email             string             `json:"email" validate:"required,min=5,max=100,account_email"`
	Password          string             `json:"password" validate:"required,min=5,max=100"`
	Language          *types.OptionPair  `json:"language,omitempty"`
	Region            *types.OptionPair  `json:"region,omitempty"`
	StreamingPlatform []types.OptionPair `json:"streamingPlatform,omitempty" validate:"omitempty,dive"`
}

// UpdateInput carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Name              *string             `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Email             *string             `json:"email,omitempty" validate:"omitempty,min=5,max=100,account_email"`
	Password          *string             `json:"password,omitempty" validate:"omitempty,min=5,max=100"`
	Language          *types.OptionPair   `json:"language,omitempty"`
	Region            *types.OptionPair   `json:"region,omitempty"`
	StreamingPlatform *[]types.OptionPair `json:"streamingPlatform,omitempty" validate:"omitempty,dive"`
	IsAdmin           *bool               `json:"isAdmin,omitempty"`
}

// FromModel projects the persisted user into its transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	admin := u.IsAdmin
	return &UserDTO{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Language:          u.Language,
		Region:            u.Region,
		StreamingPlatform: append([]types.OptionPair{}, u.StreamingPlatform...),
		WatchList:         append([]types.MediaEntry{}, u.WatchList...),
		WishList:          append([]types.MediaEntry{}, u.WishList...),
		IsAdmin:           &admin,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// FromModels projects a slice of users, preserving order.
func FromModels(list []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

func (in RegisterInput) toModel(passwordHash string) *models.User {
	platforms := in.StreamingPlatform
	if platforms == nil {
		platforms = []types.OptionPair{}
	}

	return &models.User{
		Name:              in.Name,
		Email:             in.Email,
		PasswordHash:      passwordHash,
		Language:          in.Language,
		Region:            in.Region,
		StreamingPlatform: dbtypes.OptionPairList(platforms),
		WatchList:         dbtypes.MediaList{},
		WishList:          dbtypes.MediaList{},
		IsAdmin:           false,
	}
}
