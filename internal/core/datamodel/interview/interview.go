package interview

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewSession struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	CandidateID   string    `gorm:"column:candidate_id;type:varchar(36);not null;index"`
	Title         string    `gorm:"column:title;not null"`
	ScheduledDate time.Time `gorm:"column:scheduled_date;not null"`
	Status        string    `gorm:"column:status;not null;default:SCHEDULED"`
	CreatedBy     string    `gorm:"column:created_by;type:varchar(36);not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

func (s *InterviewSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type Interview struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)"`
	CandidateID        string    `gorm:"column:candidate_id;type:varchar(36);not null;index"`
	InterviewerID      string    `gorm:"column:interviewer_id;type:varchar(36);not null;uniqueIndex:uq_interviews_session_interviewer,priority:2;index"`
	InterviewSessionID string    `gorm:"column:interview_session_id;type:varchar(36);not null;uniqueIndex:uq_interviews_session_interviewer,priority:1"`
	TechNotes          string    `gorm:"column:tech_notes"`
	SoftNotes          string    `gorm:"column:soft_notes"`
	Result             string    `gorm:"column:result;not null;default:PENDING"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
