package postgres

import (
	"context"

	"github.com/frahmantamala/recruitment-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *auditDatamodel.AuditLog) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(entry).Error)
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*auditDatamodel.AuditLog, int64, error) {
	db := store.DB(ctx, r.db)

	var total int64
	if err := applyFilter(db.Model(&auditDatamodel.AuditLog{}), filter).Count(&total).Error; err != nil {
		return nil, 0, store.TranslateError(err)
	}

	var entries []*auditDatamodel.AuditLog
	err := applyFilter(db, filter).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error
	return entries, total, store.TranslateError(err)
}

func applyFilter(query *gorm.DB, filter audit.ListFilter) *gorm.DB {
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	return query
}
