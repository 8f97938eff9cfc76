package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payload is stored as jsonb.
type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *Payload) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = Payload{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported payload type %T", value)
	}
	return json.Unmarshal(raw, p)
}

type AuditLog struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	ActorID    *string   `gorm:"column:actor_id;type:varchar(36);index"`
	Action     string    `gorm:"column:action;not null;index"`
	TargetType string    `gorm:"column:target_type;not null;index:idx_audit_logs_target,priority:1"`
	TargetID   string    `gorm:"column:target_id;not null;index:idx_audit_logs_target,priority:2"`
	Payload    Payload   `gorm:"column:payload;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
