package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/candidate"
	candidateDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/candidate"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) candidate.RepositoryAPI {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *candidateDatamodel.Candidate) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(c).Error)
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*candidateDatamodel.Candidate, error) {
	var c candidateDatamodel.Candidate
	if err := store.DB(ctx, r.db).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &c, nil
}

func (r *CandidateRepository) ExistsForPosition(ctx context.Context, email, positionID string) (bool, error) {
	var count int64
	err := store.DB(ctx, r.db).
		Model(&candidateDatamodel.Candidate{}).
		Where("email = ? AND applied_position_id = ?", email, positionID).
		Count(&count).Error
	if err != nil {
		return false, store.TranslateError(err)
	}
	return count > 0, nil
}

func (r *CandidateRepository) List(ctx context.Context, filter candidate.ListFilter) ([]*candidateDatamodel.Candidate, int64, error) {
	db := store.DB(ctx, r.db)

	var total int64
	if err := applyFilter(db.Model(&candidateDatamodel.Candidate{}), filter).Count(&total).Error; err != nil {
		return nil, 0, store.TranslateError(err)
	}

	var candidates []*candidateDatamodel.Candidate
	query := applyFilter(db, filter).Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := query.Find(&candidates).Error
	return candidates, total, store.TranslateError(err)
}

func (r *CandidateRepository) UpdateStatus(ctx context.Context, id, fromStatus string, version int, toStatus string) error {
	result := store.DB(ctx, r.db).
		Model(&candidateDatamodel.Candidate{}).
		Where("id = ? AND status = ? AND version = ?", id, fromStatus, version).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return store.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrStaleRecord
	}
	return nil
}

func applyFilter(query *gorm.DB, filter candidate.ListFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PositionID != "" {
		query = query.Where("applied_position_id = ?", filter.PositionID)
	}
	return query
}
