package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"`
	UserID           *string   `gorm:"column:user_id;type:varchar(36);uniqueIndex:uq_employees_user_id"`
	CandidateID      *string   `gorm:"column:candidate_id;type:varchar(36);index"`
	PlaceOfResidence string    `gorm:"column:place_of_residence"`
	Hometown         string    `gorm:"column:hometown"`
	NationalID       *string   `gorm:"column:national_id;uniqueIndex:uq_employees_national_id"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
