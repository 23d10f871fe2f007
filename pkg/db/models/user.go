package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/moviemaestro/moviemaestro-backend/pkg/db/types"
	"github.com/moviemaestro/moviemaestro-backend/pkg/types"
	"gorm.io/gorm"
)

// User is the canonical account entity. The watch and wish lists are
// embedded JSON documents; ListVersion guards their read-modify-write
// cycles against concurrent writers.
type User struct {
	ID                uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string                 `gorm:"column:name;not null" json:"name"`
	Email             string                 `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash      string                 `gorm:"column:password_hash;not null" json:"-"`
	Language          *types.OptionPair      `gorm:"column:language;type:jsonb;serializer:json" json:"language,omitempty"`
	Region            *types.OptionPair      `gorm:"column:region;type:jsonb;serializer:json" json:"region,omitempty"`
	StreamingPlatform dbtypes.OptionPairList `gorm:"column:streaming_platform;type:jsonb;not null;default:'[]'" json:"streamingPlatform"`
	WatchList         dbtypes.MediaList      `gorm:"column:watch_list;type:jsonb;not null;default:'[]'" json:"watchList"`
	WishList          dbtypes.MediaList      `gorm:"column:wish_list;type:jsonb;not null;default:'[]'" json:"wishList"`
	IsAdmin           bool                   `gorm:"column:is_admin;not null;default:false" json:"isAdmin"`
	ListVersion       int64                  `gorm:"column:list_version;not null;default:0" json:"-"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns an id when the dialect has no server-side default.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
