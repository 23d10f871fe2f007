package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	dbtypes "github.com/moviemaestro/moviemaestro-backend/pkg/db/types"
)

// Repository exposes user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every account ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save persists the profile columns. The media lists and their version
// counter are owned by UpdateLists; writing them here would clobber a list
// mutation committed after this record was read.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Omit("watch_list", "wish_list", "list_version").
		Save(user).Error
}

// Delete removes the account with the given ID. Returns
// gorm.ErrRecordNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLists replaces both media lists only if the stored list_version still
// matches the one the caller read. Returns false when another writer got
// there first.
func (r *Repository) UpdateLists(ctx context.Context, id uuid.UUID, version int64, watch, wish dbtypes.MediaList) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND list_version = ?", id, version).
		Updates(map[string]any{
			"watch_list":   watch,
			"wish_list":    wish,
			"list_version": version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
