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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/activity"
	activitydb "github.com/opsarif/ngo-erp/internal/activity/postgres"
	"github.com/opsarif/ngo-erp/internal/auth"
	authdb "github.com/opsarif/ngo-erp/internal/auth/postgres"
	"github.com/opsarif/ngo-erp/internal/department"
	departmentdb "github.com/opsarif/ngo-erp/internal/department/postgres"
	"github.com/opsarif/ngo-erp/internal/event"
	eventdb "github.com/opsarif/ngo-erp/internal/event/postgres"
	"github.com/opsarif/ngo-erp/internal/fundraising"
	fundraisingdb "github.com/opsarif/ngo-erp/internal/fundraising/postgres"
	"github.com/opsarif/ngo-erp/internal/grant"
	grantdb "github.com/opsarif/ngo-erp/internal/grant/postgres"
	"github.com/opsarif/ngo-erp/internal/message"
	messagedb "github.com/opsarif/ngo-erp/internal/message/postgres"
	"github.com/opsarif/ngo-erp/internal/performance"
	performancedb "github.com/opsarif/ngo-erp/internal/performance/postgres"
	"github.com/opsarif/ngo-erp/internal/program"
	programdb "github.com/opsarif/ngo-erp/internal/program/postgres"
	"github.com/opsarif/ngo-erp/internal/report"
	reportdb "github.com/opsarif/ngo-erp/internal/report/postgres"
	"github.com/opsarif/ngo-erp/internal/request"
	requestdb "github.com/opsarif/ngo-erp/internal/request/postgres"
	"github.com/opsarif/ngo-erp/internal/storage"
	"github.com/opsarif/ngo-erp/internal/task"
	taskdb "github.com/opsarif/ngo-erp/internal/task/postgres"
	"github.com/opsarif/ngo-erp/internal/transport/rest"
	"github.com/opsarif/ngo-erp/internal/user"
	userdb "github.com/opsarif/ngo-erp/internal/user/postgres"
	"github.com/opsarif/ngo-erp/pkg/logger"
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
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to wire services: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config

	privateKey, err := cfg.Security.GetPrivateKey()
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}
	publicKey, err := cfg.Security.GetPublicKey()
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	store, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes, cfg.Uploads.ExtensionList())
	if err != nil {
		return fmt.Errorf("failed to initialize file store: %w", err)
	}

	policy := auth.NewPolicy()

	authRepo := authdb.NewRepository(deps.GormDB)
	authService := auth.NewService(authRepo, privateKey, publicKey,
		cfg.Security.AccessTokenDuration, cfg.Security.RefreshTokenDuration, cfg.Security.BCryptCost)

	activityService := activity.NewService(activitydb.NewActivityRepository(deps.GormDB), deps.Logger)

	userService := user.NewService(userdb.NewUserRepository(deps.GormDB), policy, authService, authRepo, activityService, deps.Logger)
	departmentService := department.NewService(departmentdb.NewDepartmentRepository(deps.GormDB), activityService, deps.Logger)
	taskService := task.NewService(taskdb.NewTaskRepository(deps.GormDB), policy, store, activityService, deps.Logger)
	requestService := request.NewService(requestdb.NewRequestRepository(deps.GormDB), policy, store, activityService, deps.Logger)
	messageService := message.NewService(messagedb.NewMessageRepository(deps.GormDB), policy, deps.Logger)
	eventService := event.NewService(eventdb.NewRepository(deps.GormDB), activityService, deps.Logger)
	fundraisingService := fundraising.NewService(fundraisingdb.NewRepository(deps.GormDB), policy, activityService, deps.Logger)
	programService := program.NewService(programdb.NewRepository(deps.GormDB), policy, activityService, deps.Logger)
	grantService := grant.NewService(grantdb.NewRepository(deps.GormDB), authRepo, activityService, deps.Logger)
	performanceService := performance.NewService(performancedb.NewRepository(deps.GormDB), authRepo, activityService, deps.Logger)
	reportService := report.NewService(reportdb.NewRepository(deps.DB), policy, deps.Logger)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService),
		User:        user.NewHandler(userService),
		Department:  department.NewHandler(departmentService),
		Task:        task.NewHandler(taskService),
		Request:     request.NewHandler(requestService),
		Message:     message.NewHandler(messageService),
		Event:       event.NewHandler(eventService),
		Fundraising: fundraising.NewHandler(fundraisingService),
		Program:     program.NewHandler(programService),
		Grant:       grant.NewHandler(grantService),
		Performance: performance.NewHandler(performanceService),
		Activity:    activity.NewHandler(activityService),
		Report:      report.NewHandler(reportService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, cfg.Server.AllowedOrigins, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := "development"
	if config.Observability.Logging.Format == "json" {
		env = "production"
	}
	logger.InitWithLevel(env, config.Observability.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the shared connection pool. gorm reuses the same
// underlying *sql.DB.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
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
