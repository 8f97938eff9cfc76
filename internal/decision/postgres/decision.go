package postgres

import (
	"context"

	decisionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/decision"
	"github.com/frahmantamala/recruitment-management/internal/decision"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"gorm.io/gorm"
)

type DecisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) decision.RepositoryAPI {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) Create(ctx context.Context, d *decisionDatamodel.Decision) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(d).Error)
}

func (r *DecisionRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*decisionDatamodel.Decision, error) {
	var decisions []*decisionDatamodel.Decision
	err := store.DB(ctx, r.db).
		Where("candidate_id = ?", candidateID).
		Order("decided_at DESC").
		Find(&decisions).Error
	return decisions, store.TranslateError(err)
}
