package store_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

var _ = Describe("Store", func() {
	var (
		db  *gorm.DB
		tx  *store.GormTransactor
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&widget{})).To(Succeed())

		tx = store.NewTransactor(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	count := func() int64 {
		var n int64
		Expect(db.Model(&widget{}).Count(&n).Error).To(Succeed())
		return n
	}

	Describe("WithinTransaction", func() {
		It("should commit and run hooks afterwards", func() {
			var hookSawRow bool
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				Expect(store.InTransaction(ctx)).To(BeTrue())
				store.AfterCommit(ctx, func(context.Context) {
					hookSawRow = count() == 1
				})
				return store.DB(ctx, db).Create(&widget{Name: "a"}).Error
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(hookSawRow).To(BeTrue())
		})

		It("should roll back and drop hooks when fn fails", func() {
			boom := errors.New("boom")
			hookRan := false
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				store.AfterCommit(ctx, func(context.Context) { hookRan = true })
				Expect(store.DB(ctx, db).Create(&widget{Name: "a"}).Error).To(Succeed())
				return boom
			})
			Expect(err).To(MatchError(boom))
			Expect(hookRan).To(BeFalse())
			Expect(count()).To(BeZero())
		})

		It("should join an outer transaction", func() {
			boom := errors.New("boom")
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				Expect(tx.WithinTransaction(ctx, func(ctx context.Context) error {
					return store.DB(ctx, db).Create(&widget{Name: "inner"}).Error
				})).To(Succeed())
				return boom
			})
			Expect(err).To(MatchError(boom))
			Expect(count()).To(BeZero())
		})
	})

	Describe("AfterCommit", func() {
		It("should run immediately outside a transaction", func() {
			ran := false
			store.AfterCommit(ctx, func(context.Context) { ran = true })
			Expect(ran).To(BeTrue())
			Expect(store.InTransaction(ctx)).To(BeFalse())
		})
	})

	Describe("TranslateError", func() {
		It("should pass nil through", func() {
			Expect(store.TranslateError(nil)).To(BeNil())
		})

		It("should map record not found", func() {
			var w widget
			err := store.TranslateError(db.First(&w, 42).Error)
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("should map a sqlite unique violation with its columns", func() {
			Expect(db.Create(&widget{Name: "dup"}).Error).To(Succeed())
			err := store.TranslateError(db.Create(&widget{Name: "dup"}).Error)
			Expect(errors.Is(err, store.ErrUniqueViolation)).To(BeTrue())
			Expect(store.ViolatedConstraint(err)).To(ContainSubstring("name"))
		})

		It("should keep the postgres constraint name", func() {
			pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}
			err := store.TranslateError(pgErr)
			Expect(errors.Is(err, store.ErrUniqueViolation)).To(BeTrue())
			Expect(store.ViolatedConstraint(err)).To(Equal("uq_users_email"))
		})

		It("should map a postgres foreign key violation", func() {
			err := store.TranslateError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_candidates_position"})
			Expect(errors.Is(err, store.ErrForeignKeyViolation)).To(BeTrue())
		})

		It("should leave unknown errors alone", func() {
			other := errors.New("connection reset")
			Expect(store.TranslateError(other)).To(Equal(other))
			Expect(store.ViolatedConstraint(other)).To(BeEmpty())
		})
	})
})
