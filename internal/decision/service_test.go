package decision_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	candidatePostgres "github.com/frahmantamala/recruitment-management/internal/candidate/postgres"
	candidateDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/candidate"
	decisionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/decision"
	"github.com/frahmantamala/recruitment-management/internal/decision"
	decisionPostgres "github.com/frahmantamala/recruitment-management/internal/decision/postgres"
	"github.com/frahmantamala/recruitment-management/internal/mocks"
	"github.com/frahmantamala/recruitment-management/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type openPositions struct{}

func (openPositions) EnsureOpen(ctx context.Context, positionID string) error { return nil }

// staleWorkflow loses the compare-and-set after the decision row was written.
type staleWorkflow struct {
	decision.CandidateWorkflow
}

func (s staleWorkflow) ApplyDecisionOutcome(ctx context.Context, actor internal.Actor, id, target string) (*candidate.Candidate, error) {
	return nil, internal.ErrConcurrentModification
}

var _ = Describe("Decision Service", func() {
	var (
		ctx        context.Context
		db         *gorm.DB
		slogger    *slog.Logger
		recorder   *mocks.AuditRecorder
		candidates *candidate.Service
		tx         store.Transactor
		repo       decision.RepositoryAPI
		service    *decision.Service
		hr         internal.Actor
	)

	seedCandidate := func(email, status string) *candidateDatamodel.Candidate {
		row := &candidateDatamodel.Candidate{
			FullName:          "Ngo Gia Huy",
			Email:             email,
			AppliedPositionID: "pos-1",
			Status:            status,
			Version:           1,
		}
		Expect(db.Create(row).Error).To(Succeed())
		return row
	}

	dtoFor := func(candidateID, verdict string) decision.RecordDecisionDTO {
		return decision.RecordDecisionDTO{
			CandidateID: candidateID,
			Decision:    verdict,
			Notes:       "Strong across both interview rounds",
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&candidateDatamodel.Candidate{}, &decisionDatamodel.Decision{})).To(Succeed())

		recorder = (&mocks.AuditRecorder{}).Permissive()
		candidates = candidate.NewService(candidatePostgres.NewCandidateRepository(db), openPositions{}, recorder, slogger)
		tx = store.NewTransactor(db, slogger)
		repo = decisionPostgres.NewDecisionRepository(db)
		service = decision.NewService(repo, candidates, tx, recorder, slogger)
		hr = internal.Actor{ID: "hr-1", Role: internal.RoleHR}
	})

	DescribeTable("resolves the candidate",
		func(verdict, expected string) {
			row := seedCandidate("huy@example.com", candidate.StatusInterview)

			resp, err := service.RecordDecision(ctx, hr, dtoFor(row.ID, verdict))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Candidate.Status).To(Equal(expected))
			Expect(resp.Decision.DecidedBy).To(Equal(hr.ID))

			stored, err := candidates.Find(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(expected))
			Expect(stored.Status).NotTo(Equal(candidate.StatusHired))

			recorder.AssertCalled(GinkgoT(), "Record", mock.Anything, audit.ActionDecisionRecorded, audit.TargetDecision, resp.Decision.ID, mock.Anything, mock.Anything)
		},
		Entry("HIRE offers", decision.Hire, candidate.StatusOffered),
		Entry("NO_HIRE closes", decision.NoHire, candidate.StatusNotHired),
	)

	DescribeTable("refuses candidates outside INTERVIEW",
		func(status string) {
			row := seedCandidate("early@example.com", status)

			_, err := service.RecordDecision(ctx, hr, dtoFor(row.ID, decision.Hire))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))

			var count int64
			Expect(db.Model(&decisionDatamodel.Decision{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		},
		Entry("submitted", candidate.StatusSubmitted),
		Entry("approved", candidate.StatusApproved),
		Entry("offered", candidate.StatusOffered),
		Entry("hired", candidate.StatusHired),
	)

	It("should require notes of at least ten characters", func() {
		row := seedCandidate("huy@example.com", candidate.StatusInterview)
		dto := dtoFor(row.ID, decision.Hire)
		dto.Notes = "good"

		_, err := service.RecordDecision(ctx, hr, dto)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("should forbid employees", func() {
		row := seedCandidate("huy@example.com", candidate.StatusInterview)
		_, err := service.RecordDecision(ctx, internal.Actor{ID: "emp", Role: internal.RoleEmployee}, dtoFor(row.ID, decision.Hire))
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("should roll back the decision when the candidate update loses a race", func() {
		row := seedCandidate("huy@example.com", candidate.StatusInterview)
		racing := decision.NewService(repo, staleWorkflow{candidates}, tx, recorder, slogger)

		_, err := racing.RecordDecision(ctx, hr, dtoFor(row.ID, decision.NoHire))
		Expect(err).To(MatchError(internal.ErrConcurrentModification))

		decisions, err := service.ListByCandidate(ctx, hr, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(decisions).To(BeEmpty())
	})

	It("should serve decisions over HTTP", func() {
		row := seedCandidate("huy@example.com", candidate.StatusInterview)
		handler := decision.NewHandler(service)

		body := `{"candidate_id":"` + row.ID + `","decision":"hire","decision_notes":"Clear hire after panel review"}`
		req := httptest.NewRequest(http.MethodPost, "/decisions", strings.NewReader(body))
		req = req.WithContext(internal.ContextWithActor(req.Context(), hr))
		w := httptest.NewRecorder()

		handler.RecordDecision(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp decision.DecisionResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Decision.Decision).To(Equal(decision.Hire))
		Expect(resp.Candidate.Status).To(Equal(candidate.StatusOffered))

		again := httptest.NewRequest(http.MethodPost, "/decisions", strings.NewReader(body))
		again = again.WithContext(internal.ContextWithActor(again.Context(), hr))
		w = httptest.NewRecorder()
		handler.RecordDecision(w, again)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})
})
