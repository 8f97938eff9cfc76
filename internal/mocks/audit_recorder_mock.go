package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type AuditRecorder struct{ mock.Mock }

func (m *AuditRecorder) Record(ctx context.Context, action, targetType, targetID string, payload map[string]interface{}, actorID *string) {
	m.Called(ctx, action, targetType, targetID, payload, actorID)
}

// Permissive accepts any Record call, for specs that do not assert on auditing.
func (m *AuditRecorder) Permissive() *AuditRecorder {
	m.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	return m
}
