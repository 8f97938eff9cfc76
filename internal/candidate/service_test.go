package candidate_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	candidatePostgres "github.com/frahmantamala/recruitment-management/internal/candidate/postgres"
	candidateDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/candidate"
	"github.com/frahmantamala/recruitment-management/internal/mocks"
	"github.com/frahmantamala/recruitment-management/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubPositions struct {
	err error
}

func (s stubPositions) EnsureOpen(ctx context.Context, positionID string) error {
	return s.err
}

// racingRepository lets a competing writer win between load and compare-and-set.
type racingRepository struct {
	candidate.RepositoryAPI
}

func (r racingRepository) UpdateStatus(ctx context.Context, id, fromStatus string, version int, toStatus string) error {
	if err := r.RepositoryAPI.UpdateStatus(ctx, id, fromStatus, version, candidate.StatusRejected); err != nil {
		return err
	}
	return r.RepositoryAPI.UpdateStatus(ctx, id, fromStatus, version, toStatus)
}

var errInvalidTransition = internal.NewConflictError("invalid transition", internal.ErrCodeInvalidTransition)

func newTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	Expect(db.AutoMigrate(&candidateDatamodel.Candidate{})).To(Succeed())
	return db
}

func legalPairs() map[[2]string]bool {
	return map[[2]string]bool{
		{candidate.StatusSubmitted, candidate.StatusApproved}: true,
		{candidate.StatusSubmitted, candidate.StatusRejected}: true,
		{candidate.StatusApproved, candidate.StatusInterview}: true,
		{candidate.StatusOffered, candidate.StatusHired}:      true,
		{candidate.StatusOffered, candidate.StatusNotHired}:   true,
	}
}

func transitionEntries() []TableEntry {
	legal := legalPairs()
	var entries []TableEntry
	for _, from := range candidate.Statuses {
		for _, to := range candidate.Statuses {
			entries = append(entries, Entry(fmt.Sprintf("%s -> %s", from, to), from, to, legal[[2]string{from, to}]))
		}
	}
	return entries
}

var _ = Describe("Candidate Service", func() {
	var (
		ctx       context.Context
		slogger   *slog.Logger
		repo      candidate.RepositoryAPI
		recorder  *mocks.AuditRecorder
		service   *candidate.Service
		hr        internal.Actor
		seedState func(status string) *candidateDatamodel.Candidate
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = candidatePostgres.NewCandidateRepository(newTestDB())
		recorder = (&mocks.AuditRecorder{}).Permissive()
		service = candidate.NewService(repo, stubPositions{}, recorder, slogger)
		hr = internal.Actor{ID: "hr-1", Role: internal.RoleHR}

		seedState = func(status string) *candidateDatamodel.Candidate {
			row := &candidateDatamodel.Candidate{
				FullName:          "Hoang Mai",
				Email:             fmt.Sprintf("mai+%s@example.com", status),
				Phone:             "0901234567",
				CVURL:             "https://cv.example.com/mai.pdf",
				AppliedPositionID: "pos-1",
				Status:            status,
				Version:           1,
			}
			Expect(repo.Create(ctx, row)).To(Succeed())
			return row
		}
	})

	DescribeTable("Transition",
		func(from, to string, legal bool) {
			row := seedState(from)

			updated, err := service.Transition(ctx, hr, row.ID, to)

			stored, loadErr := repo.GetByID(ctx, row.ID)
			Expect(loadErr).NotTo(HaveOccurred())
			if legal {
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(to))
				Expect(stored.Status).To(Equal(to))
				Expect(stored.Version).To(Equal(2))
			} else {
				Expect(err).To(MatchError(errInvalidTransition))
				appErr, _ := internal.IsAppError(err)
				Expect(appErr.Details).To(Equal(internal.TransitionDetails{From: from, To: to}))
				Expect(stored.Status).To(Equal(from))
				Expect(stored.Version).To(Equal(1))
			}
		},
		transitionEntries(),
	)

	It("should record the status change with from, to and actor", func() {
		row := seedState(candidate.StatusSubmitted)

		_, err := service.Approve(ctx, hr, row.ID)
		Expect(err).NotTo(HaveOccurred())

		recorder.AssertCalled(GinkgoT(), "Record", mock.Anything, audit.ActionStatusChanged, audit.TargetCandidate, row.ID,
			map[string]interface{}{"from": candidate.StatusSubmitted, "to": candidate.StatusApproved, "actor": hr.ID},
			mock.MatchedBy(func(actorID *string) bool { return actorID != nil && *actorID == hr.ID }))
	})

	It("should forbid employees from transitioning candidates", func() {
		row := seedState(candidate.StatusSubmitted)
		employee := internal.Actor{ID: "emp-1", Role: internal.RoleEmployee}

		_, err := service.Transition(ctx, employee, row.ID, candidate.StatusApproved)
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("should report unknown candidates", func() {
		_, err := service.Transition(ctx, hr, "missing", candidate.StatusApproved)
		Expect(err).To(MatchError(internal.ErrCandidateNotFound))
	})

	It("should detect a concurrent modification", func() {
		row := seedState(candidate.StatusSubmitted)
		racing := candidate.NewService(racingRepository{repo}, stubPositions{}, recorder, slogger)

		_, err := racing.Transition(ctx, hr, row.ID, candidate.StatusApproved)
		Expect(err).To(MatchError(internal.ErrConcurrentModification))

		stored, _ := repo.GetByID(ctx, row.ID)
		Expect(stored.Status).To(Equal(candidate.StatusRejected))
	})

	DescribeTable("IsTerminal",
		func(status string, terminal bool) {
			Expect(candidate.IsTerminal(status)).To(Equal(terminal))
		},
		Entry("submitted", candidate.StatusSubmitted, false),
		Entry("approved", candidate.StatusApproved, false),
		Entry("interview", candidate.StatusInterview, false),
		Entry("offered", candidate.StatusOffered, false),
		Entry("rejected", candidate.StatusRejected, true),
		Entry("hired", candidate.StatusHired, true),
		Entry("not hired", candidate.StatusNotHired, true),
	)

	Describe("decision outcomes", func() {
		It("should resolve interviewing candidates", func() {
			row := seedState(candidate.StatusInterview)
			c, err := service.ApplyDecisionOutcome(ctx, hr, row.ID, candidate.StatusOffered)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(candidate.StatusOffered))
		})

		It("should never jump straight to HIRED", func() {
			row := seedState(candidate.StatusInterview)
			_, err := service.ApplyDecisionOutcome(ctx, hr, row.ID, candidate.StatusHired)
			Expect(err).To(MatchError(errInvalidTransition))
		})

		It("should reject candidates outside INTERVIEW", func() {
			row := seedState(candidate.StatusApproved)
			_, err := service.ApplyDecisionOutcome(ctx, hr, row.ID, candidate.StatusNotHired)
			Expect(err).To(MatchError(errInvalidTransition))
		})
	})

	Describe("EnterInterview", func() {
		It("should move approved candidates and keep interviewing ones", func() {
			approved := seedState(candidate.StatusApproved)
			c, err := service.EnterInterview(ctx, hr, approved.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(candidate.StatusInterview))

			interviewing := seedState(candidate.StatusInterview)
			c, err = service.EnterInterview(ctx, hr, interviewing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Version).To(Equal(1))
		})

		It("should refuse other statuses", func() {
			row := seedState(candidate.StatusSubmitted)
			_, err := service.EnterInterview(ctx, hr, row.ID)
			Expect(err).To(MatchError(internal.ErrCandidateNotEligible))
		})
	})

	Describe("SubmitApplication", func() {
		var dto candidate.SubmitApplicationDTO

		BeforeEach(func() {
			dto = candidate.SubmitApplicationDTO{
				FullName:          "Dang Quoc Bao",
				Email:             "Bao@Example.com",
				Phone:             "0987654321",
				CVURL:             "https://cv.example.com/bao.pdf",
				AppliedPositionID: "pos-1",
			}
		})

		It("should create a SUBMITTED candidate without an actor", func() {
			c, err := service.SubmitApplication(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(candidate.StatusSubmitted))
			Expect(c.Email).To(Equal("bao@example.com"))

			recorder.AssertCalled(GinkgoT(), "Record", mock.Anything, audit.ActionCandidateSubmitted, audit.TargetCandidate, c.ID, mock.Anything, (*string)(nil))
		})

		It("should reject a second application for the same position", func() {
			_, err := service.SubmitApplication(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SubmitApplication(ctx, dto)
			Expect(err).To(MatchError(internal.ErrDuplicateApplication))
		})

		It("should accept the same email for another position", func() {
			_, err := service.SubmitApplication(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			dto.AppliedPositionID = "pos-2"
			_, err = service.SubmitApplication(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse closed positions", func() {
			closed := candidate.NewService(repo, stubPositions{err: internal.ErrPositionClosed}, recorder, slogger)
			_, err := closed.SubmitApplication(ctx, dto)
			Expect(err).To(MatchError(internal.ErrPositionClosed))
		})

		It("should validate the cv url", func() {
			dto.CVURL = "cv.pdf"
			_, err := service.SubmitApplication(ctx, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("store constraints", func() {
		It("should enforce one application per email and position", func() {
			first := &candidateDatamodel.Candidate{FullName: "A", Email: "a@example.com", AppliedPositionID: "pos-9", Status: candidate.StatusSubmitted}
			second := &candidateDatamodel.Candidate{FullName: "A", Email: "a@example.com", AppliedPositionID: "pos-9", Status: candidate.StatusSubmitted}
			Expect(repo.Create(ctx, first)).To(Succeed())
			Expect(repo.Create(ctx, second)).To(MatchError(store.ErrUniqueViolation))
		})
	})
})
