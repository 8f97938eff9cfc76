package postgres

import (
	"context"

	positionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/position"
	"github.com/frahmantamala/recruitment-management/internal/position"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) position.RepositoryAPI {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) Create(ctx context.Context, p *positionDatamodel.Position) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(p).Error)
}

func (r *PositionRepository) GetByID(ctx context.Context, id string) (*positionDatamodel.Position, error) {
	var p positionDatamodel.Position
	if err := store.DB(ctx, r.db).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &p, nil
}

func (r *PositionRepository) List(ctx context.Context, filter position.ListFilter) ([]*positionDatamodel.Position, int64, error) {
	db := store.DB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.OnlyOpen {
			return q.Where("is_open = ?", true)
		}
		return q
	}

	var total int64
	if err := scope(db.Model(&positionDatamodel.Position{})).Count(&total).Error; err != nil {
		return nil, 0, store.TranslateError(err)
	}

	var positions []*positionDatamodel.Position
	query := scope(db).Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := query.Find(&positions).Error
	return positions, total, store.TranslateError(err)
}

// Update persists every column so that closing a position (is_open=false) is not skipped.
func (r *PositionRepository) Update(ctx context.Context, p *positionDatamodel.Position) error {
	return store.TranslateError(store.DB(ctx, r.db).Save(p).Error)
}
