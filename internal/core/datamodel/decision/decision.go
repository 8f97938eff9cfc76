package decision

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Decision struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	CandidateID   string    `gorm:"column:candidate_id;type:varchar(36);not null;index"`
	DecidedBy     string    `gorm:"column:decided_by;type:varchar(36);not null"`
	Decision      string    `gorm:"column:decision;not null"`
	DecisionNotes string    `gorm:"column:decision_notes;not null"`
	DecidedAt     time.Time `gorm:"column:decided_at;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Decision) TableName() string {
	return "decisions"
}

func (d *Decision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
