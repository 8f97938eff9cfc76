package postgres

import (
	"context"
	"time"

	interviewDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/interview"
	"github.com/frahmantamala/recruitment-management/internal/interview"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"gorm.io/gorm"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) interview.RepositoryAPI {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) CreateSession(ctx context.Context, s *interviewDatamodel.InterviewSession) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(s).Error)
}

func (r *InterviewRepository) CreateInterviews(ctx context.Context, interviews []*interviewDatamodel.Interview) error {
	if len(interviews) == 0 {
		return nil
	}
	return store.TranslateError(store.DB(ctx, r.db).Create(&interviews).Error)
}

func (r *InterviewRepository) GetSession(ctx context.Context, id string) (*interviewDatamodel.InterviewSession, error) {
	var s interviewDatamodel.InterviewSession
	if err := store.DB(ctx, r.db).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &s, nil
}

func (r *InterviewRepository) ListSessionsByCandidate(ctx context.Context, candidateID string) ([]*interviewDatamodel.InterviewSession, error) {
	var sessions []*interviewDatamodel.InterviewSession
	err := store.DB(ctx, r.db).
		Where("candidate_id = ?", candidateID).
		Order("scheduled_date ASC").
		Find(&sessions).Error
	return sessions, store.TranslateError(err)
}

func (r *InterviewRepository) UpdateSessionStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	result := store.DB(ctx, r.db).
		Model(&interviewDatamodel.InterviewSession{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
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

func (r *InterviewRepository) GetInterview(ctx context.Context, id string) (*interviewDatamodel.Interview, error) {
	var i interviewDatamodel.Interview
	if err := store.DB(ctx, r.db).Where("id = ?", id).First(&i).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &i, nil
}

func (r *InterviewRepository) ListInterviewsBySession(ctx context.Context, sessionID string) ([]*interviewDatamodel.Interview, error) {
	var interviews []*interviewDatamodel.Interview
	err := store.DB(ctx, r.db).
		Where("interview_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&interviews).Error
	return interviews, store.TranslateError(err)
}

func (r *InterviewRepository) ListInterviewsByInterviewer(ctx context.Context, interviewerID string) ([]*interviewDatamodel.Interview, error) {
	var interviews []*interviewDatamodel.Interview
	err := store.DB(ctx, r.db).
		Where("interviewer_id = ?", interviewerID).
		Order("created_at DESC").
		Find(&interviews).Error
	return interviews, store.TranslateError(err)
}

// UpdateEvaluation writes the evaluation only while the owning session is open.
// A session closed in the meantime yields store.ErrStaleRecord.
func (r *InterviewRepository) UpdateEvaluation(ctx context.Context, i *interviewDatamodel.Interview) error {
	i.UpdatedAt = time.Now()
	result := store.DB(ctx, r.db).
		Model(&interviewDatamodel.Interview{}).
		Where("id = ?", i.ID).
		Where("interview_session_id IN (SELECT id FROM interview_sessions WHERE status IN ?)", interview.OpenSessionStatuses).
		Updates(map[string]interface{}{
			"tech_notes": i.TechNotes,
			"soft_notes": i.SoftNotes,
			"result":     i.Result,
			"updated_at": i.UpdatedAt,
		})
	if result.Error != nil {
		return store.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrStaleRecord
	}
	return nil
}
