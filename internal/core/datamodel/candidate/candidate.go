package candidate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Candidate struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)"`
	FullName          string    `gorm:"column:full_name;not null"`
	Email             string    `gorm:"column:email;not null;uniqueIndex:uq_candidates_email_position,priority:1"`
	Phone             string    `gorm:"column:phone"`
	CVURL             string    `gorm:"column:cv_url"`
	AppliedPositionID string    `gorm:"column:applied_position_id;type:varchar(36);not null;uniqueIndex:uq_candidates_email_position,priority:2;index"`
	Status            string    `gorm:"column:status;not null;default:SUBMITTED;index"`
	Version           int       `gorm:"column:version;not null;default:1"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
