package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockAuditRepository struct {
	mu         sync.Mutex
	entries    []*auditDatamodel.AuditLog
	shouldFail bool
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *auditDatamodel.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return errors.New("database unavailable")
	}
	entry.ID = "audit-" + entry.TargetID
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*auditDatamodel.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, 0, errors.New("database unavailable")
	}
	var out []*auditDatamodel.AuditLog
	for _, e := range m.entries {
		if filter.TargetID != "" && e.TargetID != filter.TargetID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *mockAuditRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, event events.Event) error {
	return errors.New("bus closed")
}

var _ = Describe("Audit recorder", func() {
	var (
		logger   *slog.Logger
		bus      *events.EventBus
		repo     *mockAuditRepository
		recorder *audit.EventRecorder
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		repo = &mockAuditRepository{}
		audit.NewEventHandler(repo, logger).RegisterEventHandlers(bus)
		recorder = audit.NewEventRecorder(bus, logger)
	})

	It("should persist before returning with a synchronous publisher", func() {
		direct := audit.NewEventRecorder(audit.SyncPublisher{Bus: bus}, logger)
		direct.Record(context.Background(), audit.ActionUserCreated, audit.TargetUser, "u-1", map[string]interface{}{
			"username": "tranbinh",
		}, nil)

		Expect(repo.count()).To(Equal(1))
		Expect(repo.entries[0].ActorID).To(BeNil())
		Expect(repo.entries[0].Action).To(Equal(audit.ActionUserCreated))
	})

	It("should persist the entry through the event bus", func() {
		actor := "admin-1"
		recorder.Record(context.Background(), audit.ActionStatusChanged, audit.TargetCandidate, "cand-1",
			map[string]interface{}{"from": "SUBMITTED", "to": "APPROVED", "actor": actor}, &actor)

		Eventually(repo.count).Should(Equal(1))
		entry := repo.entries[0]
		Expect(entry.Action).To(Equal(audit.ActionStatusChanged))
		Expect(entry.TargetType).To(Equal(audit.TargetCandidate))
		Expect(*entry.ActorID).To(Equal("admin-1"))
		Expect(entry.Payload).To(HaveKeyWithValue("to", "APPROVED"))
	})

	It("should accept anonymous actors", func() {
		recorder.Record(context.Background(), audit.ActionCandidateSubmitted, audit.TargetCandidate, "cand-2", nil, nil)

		Eventually(repo.count).Should(Equal(1))
		Expect(repo.entries[0].ActorID).To(BeNil())
	})

	It("should not surface persistence failures", func() {
		repo.shouldFail = true
		Expect(func() {
			recorder.Record(context.Background(), audit.ActionStatusChanged, audit.TargetCandidate, "cand-3", nil, nil)
			bus.Wait()
		}).NotTo(Panic())
		Expect(repo.count()).To(Equal(0))
	})

	It("should not surface publish failures", func() {
		r := audit.NewEventRecorder(failingPublisher{}, logger)
		Expect(func() {
			r.Record(context.Background(), audit.ActionStatusChanged, audit.TargetCandidate, "cand-4", nil, nil)
		}).NotTo(Panic())
	})

	It("should reject foreign events in the handler", func() {
		handler := audit.NewEventHandler(repo, logger)
		err := handler.HandleAuditRecorded(context.Background(), events.BaseEvent{Type: events.EventTypeAuditRecorded})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Audit service", func() {
	var (
		repo    *mockAuditRepository
		service *audit.Service
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = &mockAuditRepository{}
		service = audit.NewService(repo, logger)
		Expect(repo.Create(context.Background(), &auditDatamodel.AuditLog{Action: "A", TargetType: "candidate", TargetID: "c1"})).To(Succeed())
		Expect(repo.Create(context.Background(), &auditDatamodel.AuditLog{Action: "A", TargetType: "candidate", TargetID: "c2"})).To(Succeed())
	})

	It("should list entries for administrators", func() {
		resp, err := service.List(context.Background(), internal.Actor{ID: "a", Role: internal.RoleAdmin}, audit.ListFilter{TargetID: "c1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.AuditLogs).To(HaveLen(1))
		Expect(resp.Total).To(Equal(int64(1)))
		Expect(resp.Limit).To(Equal(audit.DefaultListLimit))
	})

	It("should clamp the page size", func() {
		resp, err := service.List(context.Background(), internal.Actor{ID: "a", Role: internal.RoleAdmin}, audit.ListFilter{Limit: 10000})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Limit).To(Equal(audit.MaxListLimit))
	})

	It("should deny HR users", func() {
		_, err := service.List(context.Background(), internal.Actor{ID: "h", Role: internal.RoleHR}, audit.ListFilter{})
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("should wrap repository failures", func() {
		repo.shouldFail = true
		_, err := service.List(context.Background(), internal.Actor{ID: "a", Role: internal.RoleAdmin}, audit.ListFilter{})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))
	})
})
