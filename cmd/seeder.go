package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	auditPostgres "github.com/frahmantamala/recruitment-management/internal/audit/postgres"
	"github.com/frahmantamala/recruitment-management/internal/core/common/credentials"
	positionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/position"
	userDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	positionPostgres "github.com/frahmantamala/recruitment-management/internal/position/postgres"
	"github.com/frahmantamala/recruitment-management/internal/store"
	userPostgres "github.com/frahmantamala/recruitment-management/internal/user/postgres"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// seedTables are emptied by --clear. TRUNCATE bypasses the append-only trigger on audit_logs.
var seedTables = []string{
	"audit_logs",
	"decisions",
	"interviews",
	"interview_sessions",
	"employees",
	"candidates",
	"positions",
	"users",
}

type SeedFixture struct {
	Users     []SeedUser     `yaml:"users"`
	Positions []SeedPosition `yaml:"positions"`
}

type SeedUser struct {
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type SeedPosition struct {
	Title       string `yaml:"title"`
	Department  string `yaml:"department"`
	Description string `yaml:"description"`
	IsOpen      *bool  `yaml:"is_open"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the accounts and positions listed in a YAML fixture.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		fixture, err := readSeedFixture(seedFile)
		if err != nil {
			log.Fatalf("failed to read fixture: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeedTables(gdb); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		lg := logger.LoggerWrapper()
		bus := events.NewEventBus(lg)
		audit.NewEventHandler(auditPostgres.NewAuditRepository(gdb), lg).RegisterEventHandlers(bus)
		recorder := audit.NewEventRecorder(audit.SyncPublisher{Bus: bus}, lg)

		if err := applySeedFixture(context.Background(), gdb, fixture, cfg.Security.BCryptCost, recorder); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Seed data loaded from", seedFile)
	},
}

func readSeedFixture(path string) (*SeedFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSeedFixture(raw)
}

func parseSeedFixture(raw []byte) (*SeedFixture, error) {
	var fixture SeedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	for i, u := range fixture.Users {
		switch u.Role {
		case internal.RoleAdmin, internal.RoleHR, internal.RoleEmployee:
		default:
			return nil, fmt.Errorf("users[%d]: unsupported role %q", i, u.Role)
		}
		if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.FullName) == "" {
			return nil, fmt.Errorf("users[%d]: full_name and email are required", i)
		}
	}
	for i, p := range fixture.Positions {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("positions[%d]: title is required", i)
		}
	}

	return &fixture, nil
}

func clearSeedTables(db *gorm.DB) error {
	stmt := "TRUNCATE TABLE " + strings.Join(seedTables, ", ") + " CASCADE"
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

// applySeedFixture inserts rows that are not present yet; reruns are no-ops.
// Every inserted row is audited with no actor.
func applySeedFixture(ctx context.Context, db *gorm.DB, fixture *SeedFixture, bcryptCost int, recorder audit.Recorder) error {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	users := userPostgres.NewUserRepository(db)
	positions := positionPostgres.NewPositionRepository(db)

	for _, u := range fixture.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))

		var existing userDatamodel.User
		err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		if err == nil {
			fmt.Println("user already exists:", email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup user %s: %w", email, err)
		}

		password := u.Password
		generated := password == ""
		if generated {
			if password, err = credentials.GeneratePassword(); err != nil {
				return err
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", email, err)
		}

		taken, err := users.ListUsernamesWithPrefix(ctx, credentials.BaseUsername(u.FullName))
		if err != nil {
			return fmt.Errorf("load usernames: %w", err)
		}

		row := &userDatamodel.User{
			Username:     credentials.GenerateUsername(u.FullName, taken),
			Email:        email,
			Phone:        u.Phone,
			FullName:     strings.TrimSpace(u.FullName),
			Role:         u.Role,
			Status:       "ACTIVE",
			PasswordHash: string(hash),
		}
		if err := users.Create(ctx, row); err != nil {
			return fmt.Errorf("insert user %s: %w", email, err)
		}
		recorder.Record(ctx, audit.ActionUserCreated, audit.TargetUser, row.ID, map[string]interface{}{
			"username": row.Username,
			"role":     row.Role,
			"source":   "seed",
		}, nil)

		if generated {
			fmt.Printf("Seeded %s %s (username %s, password %s)\n", row.Role, email, row.Username, password)
		} else {
			fmt.Printf("Seeded %s %s (username %s)\n", row.Role, email, row.Username)
		}
	}

	for _, p := range fixture.Positions {
		var count int64
		if err := db.WithContext(ctx).Model(&positionDatamodel.Position{}).Where("title = ?", p.Title).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup position %s: %w", p.Title, store.TranslateError(err))
		}
		if count > 0 {
			continue
		}

		isOpen := true
		if p.IsOpen != nil {
			isOpen = *p.IsOpen
		}
		row := &positionDatamodel.Position{
			Title:       p.Title,
			Department:  p.Department,
			Description: strings.TrimSpace(p.Description),
			IsOpen:      isOpen,
		}
		if err := positions.Create(ctx, row); err != nil {
			return fmt.Errorf("insert position %s: %w", p.Title, err)
		}
		recorder.Record(ctx, audit.ActionPositionCreated, audit.TargetPosition, row.ID, map[string]interface{}{
			"title":  row.Title,
			"source": "seed",
		}, nil)
		fmt.Printf("Seeded position: %s\n", p.Title)
	}

	return nil
}
