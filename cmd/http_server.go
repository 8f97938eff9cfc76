package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	auditPostgres "github.com/frahmantamala/recruitment-management/internal/audit/postgres"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	candidatePostgres "github.com/frahmantamala/recruitment-management/internal/candidate/postgres"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	"github.com/frahmantamala/recruitment-management/internal/decision"
	decisionPostgres "github.com/frahmantamala/recruitment-management/internal/decision/postgres"
	"github.com/frahmantamala/recruitment-management/internal/employee"
	employeePostgres "github.com/frahmantamala/recruitment-management/internal/employee/postgres"
	"github.com/frahmantamala/recruitment-management/internal/interview"
	interviewPostgres "github.com/frahmantamala/recruitment-management/internal/interview/postgres"
	"github.com/frahmantamala/recruitment-management/internal/position"
	positionPostgres "github.com/frahmantamala/recruitment-management/internal/position/postgres"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"github.com/frahmantamala/recruitment-management/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-management/internal/transport/rest"
	"github.com/frahmantamala/recruitment-management/internal/user"
	userPostgres "github.com/frahmantamala/recruitment-management/internal/user/postgres"
	"github.com/frahmantamala/recruitment-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// audit writes still in flight must land before the pool closes
		if err := deps.EventBus.Shutdown(ctx); err != nil {
			deps.Logger.Error("Event bus drain incomplete", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	lg := deps.Logger
	cfg := deps.Config

	auditRepo := auditPostgres.NewAuditRepository(deps.Gorm)
	audit.NewEventHandler(auditRepo, lg).RegisterEventHandlers(deps.EventBus)
	recorder := audit.NewEventRecorder(deps.EventBus, lg)
	tx := store.NewTransactor(deps.Gorm, lg)

	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), recorder, lg, cfg.Security.BCryptCost)
	positionService := position.NewService(positionPostgres.NewPositionRepository(deps.Gorm), recorder, lg)
	candidateService := candidate.NewService(candidatePostgres.NewCandidateRepository(deps.Gorm), positionService, recorder, lg)
	interviewService := interview.NewService(interviewPostgres.NewInterviewRepository(deps.Gorm), candidateService, userService, tx, recorder, lg)
	decisionService := decision.NewService(decisionPostgres.NewDecisionRepository(deps.Gorm), candidateService, tx, recorder, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.Gorm), candidateService, userService, recorder, lg)
	auditService := audit.NewService(auditRepo, lg)

	authService := auth.NewService(auth.NewJWTVerifier(cfg.Security), userService, lg)

	var validator *middleware.RequestValidator
	if cfg.Server.ValidateRequests {
		v, err := middleware.NewRequestValidatorFromFile(cfg.Server.OpenAPIPath, rest.APIBasePath, lg)
		if err != nil {
			return err
		}
		validator = v
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:    rest.NewHealthHandler(deps.DB),
		Auth:      auth.NewMiddleware(authService, lg),
		RBAC:      auth.NewRBACAuthorization(lg),
		Validator: validator,
		Position:  position.NewHandler(positionService),
		Candidate: candidate.NewHandler(candidateService),
		Interview: interview.NewHandler(interviewService),
		Decision:  decision.NewHandler(decisionService),
		User:      user.NewHandler(userService),
		Employee:  employee.NewHandler(employeeService),
		Audit:     audit.NewHandler(auditService),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
	}, lg)

	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Setup(logger.Options{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
	}, nil
}

// initDB opens the pgx-backed connection pool
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm so both see the same connections
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		// raw pg errors keep the constraint name that store.TranslateError reports
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
