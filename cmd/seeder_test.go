package cmd

import (
	"context"

	"github.com/frahmantamala/recruitment-management/internal/audit"
	positionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/position"
	userDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	"github.com/frahmantamala/recruitment-management/internal/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const fixtureYAML = `
users:
  - full_name: Nguyễn Văn An
    email: An.Nguyen@example.com
    phone: "+84901234567"
    role: ADMIN
    password: change-me-now
  - full_name: Nguyen Van An
    email: an.hr@example.com
    role: HR
positions:
  - title: Backend Engineer
    department: Engineering
    description: Go services
  - title: Office Manager
    is_open: false
`

var _ = Describe("Seeder", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		DeferCleanup(sqlDB.Close)
		Expect(db.AutoMigrate(&userDatamodel.User{}, &positionDatamodel.Position{})).To(Succeed())
	})

	It("should parse the fixture", func() {
		fixture, err := parseSeedFixture([]byte(fixtureYAML))
		Expect(err).NotTo(HaveOccurred())
		Expect(fixture.Users).To(HaveLen(2))
		Expect(fixture.Positions[1].IsOpen).NotTo(BeNil())
		Expect(*fixture.Positions[1].IsOpen).To(BeFalse())
	})

	It("should reject unknown roles", func() {
		_, err := parseSeedFixture([]byte("users:\n  - full_name: A B\n    email: a@b.c\n    role: ROOT\n"))
		Expect(err).To(MatchError(ContainSubstring("unsupported role")))
	})

	It("should insert accounts with generated usernames and be rerunnable", func() {
		fixture, err := parseSeedFixture([]byte(fixtureYAML))
		Expect(err).NotTo(HaveOccurred())

		recorder := (&mocks.AuditRecorder{}).Permissive()
		Expect(applySeedFixture(context.Background(), db, fixture, bcrypt.MinCost, recorder)).To(Succeed())
		Expect(applySeedFixture(context.Background(), db, fixture, bcrypt.MinCost, recorder)).To(Succeed())

		var users []userDatamodel.User
		Expect(db.Order("username").Find(&users).Error).To(Succeed())
		Expect(users).To(HaveLen(2))
		Expect(users[0].Username).To(Equal("nguyenvanan"))
		Expect(users[0].Email).To(Equal("an.nguyen@example.com"))
		Expect(bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("change-me-now"))).To(Succeed())
		Expect(users[1].Username).To(Equal("nguyenvanan1"))

		var positions []positionDatamodel.Position
		Expect(db.Order("title").Find(&positions).Error).To(Succeed())
		Expect(positions).To(HaveLen(2))
		Expect(positions[0].IsOpen).To(BeTrue())
		Expect(positions[1].IsOpen).To(BeFalse())

		recorder.AssertNumberOfCalls(GinkgoT(), "Record", 4)
		recorder.AssertCalled(GinkgoT(), "Record", mock.Anything, audit.ActionUserCreated, audit.TargetUser, users[0].ID, mock.Anything, (*string)(nil))
		recorder.AssertCalled(GinkgoT(), "Record", mock.Anything, audit.ActionPositionCreated, audit.TargetPosition, positions[0].ID, mock.Anything, (*string)(nil))
	})
})

var _ = Describe("buildTestEvent", func() {
	It("should build an audit event from JSON data", func() {
		event := buildTestEvent(events.EventTypeAuditRecorded, `{"action":"STATUS_CHANGED","target_type":"candidate","target_id":"c-1","details":{"from":"SUBMITTED"}}`)

		audit, ok := event.(*events.AuditRecordedEvent)
		Expect(ok).To(BeTrue())
		Expect(audit.Action).To(Equal("STATUS_CHANGED"))
		Expect(audit.ActorID).To(BeNil())
	})

	It("should wrap plain messages", func() {
		event := buildTestEvent("custom.ping", "hello")
		Expect(event.EventType()).To(Equal("custom.ping"))
		Expect(event.Payload()).To(HaveKeyWithValue("message", "hello"))
	})
})
