package audit

type ListFilter struct {
	TargetType string
	TargetID   string
	ActorID    string
	Action     string
	Limit      int
	Offset     int
}

type ListResponse struct {
	AuditLogs []*AuditLog `json:"audit_logs"`
	Total     int64       `json:"total"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}
