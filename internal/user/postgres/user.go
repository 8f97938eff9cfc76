package postgres

import (
	"context"

	userDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"github.com/frahmantamala/recruitment-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(u).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := store.DB(ctx, r.db).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	if len(ids) == 0 {
		return users, nil
	}
	err := store.DB(ctx, r.db).Where("id IN ?", ids).Find(&users).Error
	return users, store.TranslateError(err)
}

func (r *UserRepository) ListUsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var usernames []string
	err := store.DB(ctx, r.db).
		Model(&userDatamodel.User{}).
		Where("username LIKE ?", prefix+"%").
		Pluck("username", &usernames).Error
	return usernames, store.TranslateError(err)
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*userDatamodel.User, int64, error) {
	db := store.DB(ctx, r.db)

	var total int64
	if err := applyFilter(db.Model(&userDatamodel.User{}), filter).Count(&total).Error; err != nil {
		return nil, 0, store.TranslateError(err)
	}

	var users []*userDatamodel.User
	query := applyFilter(db, filter).Order("full_name ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := query.Find(&users).Error
	return users, total, store.TranslateError(err)
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	result := store.DB(ctx, r.db).Save(u)
	if result.Error != nil {
		return store.TranslateError(result.Error)
	}
	return nil
}

func applyFilter(query *gorm.DB, filter user.ListFilter) *gorm.DB {
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}
