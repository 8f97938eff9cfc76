package audit

import (
	"context"
	"time"

	auditDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/audit"
)

const (
	ActionStatusChanged           = "STATUS_CHANGED"
	ActionCandidateSubmitted      = "CANDIDATE_SUBMITTED"
	ActionInterviewSessionCreated = "INTERVIEW_SESSION_CREATED"
	ActionInterviewSessionUpdated = "INTERVIEW_SESSION_STATUS_CHANGED"
	ActionInterviewEvaluated      = "INTERVIEW_EVALUATED"
	ActionDecisionRecorded        = "DECISION_RECORDED"
	ActionUserCreated             = "USER_CREATED"
	ActionUserUpdated             = "USER_UPDATED"
	ActionUserStatusChanged       = "USER_STATUS_CHANGED"
	ActionPasswordReset           = "PASSWORD_RESET"
	ActionEmployeeCreated         = "EMPLOYEE_CREATED"
	ActionEmployeeUpdated         = "EMPLOYEE_UPDATED"
	ActionPositionCreated         = "POSITION_CREATED"
	ActionPositionUpdated         = "POSITION_UPDATED"
)

const (
	TargetCandidate        = "candidate"
	TargetInterviewSession = "interview_session"
	TargetInterview        = "interview"
	TargetDecision         = "decision"
	TargetUser             = "user"
	TargetEmployee         = "employee"
	TargetPosition         = "position"
)

// Recorder appends audit entries. Implementations never fail the caller.
type Recorder interface {
	Record(ctx context.Context, action, targetType, targetID string, payload map[string]interface{}, actorID *string)
}

type AuditLog struct {
	ID         string                 `json:"id"`
	ActorID    *string                `json:"actor_id"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   string                 `json:"target_id"`
	Payload    map[string]interface{} `json:"payload"`
	CreatedAt  time.Time              `json:"created_at"`
}

func FromDataModel(a *auditDatamodel.AuditLog) *AuditLog {
	return &AuditLog{
		ID:         a.ID,
		ActorID:    a.ActorID,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetID:   a.TargetID,
		Payload:    a.Payload,
		CreatedAt:  a.CreatedAt,
	}
}

// ActorRef returns a pointer suitable for the actor column, nil for anonymous callers.
func ActorRef(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}
