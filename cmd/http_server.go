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

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/auth"
	authPostgres "github.com/frahmantamala/resource-management/internal/auth/postgres"
	"github.com/frahmantamala/resource-management/internal/core/events"
	"github.com/frahmantamala/resource-management/internal/department"
	departmentPostgres "github.com/frahmantamala/resource-management/internal/department/postgres"
	"github.com/frahmantamala/resource-management/internal/notification"
	"github.com/frahmantamala/resource-management/internal/report"
	reportPostgres "github.com/frahmantamala/resource-management/internal/report/postgres"
	"github.com/frahmantamala/resource-management/internal/resource"
	resourcePostgres "github.com/frahmantamala/resource-management/internal/resource/postgres"
	"github.com/frahmantamala/resource-management/internal/submission"
	submissionPostgres "github.com/frahmantamala/resource-management/internal/submission/postgres"
	"github.com/frahmantamala/resource-management/internal/transport"
	"github.com/frahmantamala/resource-management/internal/transport/rest"
	"github.com/frahmantamala/resource-management/internal/user"
	userPostgres "github.com/frahmantamala/resource-management/internal/user/postgres"
	"github.com/frahmantamala/resource-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
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
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Mailer   *notification.Mailer
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.Handlers, deps.Config.Server, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

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
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Mailer.Shutdown()
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Warn("reminder status updates still running at shutdown", "error", err)
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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(config)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGormDB(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	mailer := notification.NewMailer(mailerConfig(config.Notification), eventBus, lg)
	mailer.RegisterEventHandlers(eventBus)

	base := transport.NewBaseHandler(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, lg)
	userService := user.NewService(userPostgres.NewUserRepository(gormDB), lg)

	resourceRepo := resourcePostgres.NewResourceRepository(gormDB)
	resourceService := resource.NewService(resourceRepo, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(gormDB), lg)
	reportService := report.NewService(reportPostgres.NewReportRepository(db), lg)

	submissionService := submission.NewService(submissionPostgres.NewSubmissionRepository(gormDB), resourceRepo, eventBus, lg)
	submission.NewEventHandler(submissionService, lg).RegisterEventHandlers(eventBus)

	return &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Mailer:   mailer,
		Handlers: rest.Handlers{
			Health:     rest.NewHealthHandler(db, mailer),
			Auth:       auth.NewHandler(base, authService),
			User:       user.NewHandler(base, userService),
			Report:     report.NewHandler(base, reportService),
			Resource:   resource.NewHandler(base, resourceService),
			Department: department.NewHandler(base, departmentService),
			Submission: submission.NewHandler(base, submissionService),
		},
		Logger: lg,
	}, nil
}

func mailerConfig(cfg internal.NotificationConfig) notification.Config {
	return notification.Config{
		MailAPIURL:     cfg.MailAPIURL,
		APIKey:         cfg.APIKey,
		Sender:         cfg.Sender,
		SendTimeout:    cfg.SendTimeout,
		MaxWorkers:     cfg.MaxWorkers,
		JobQueueSize:   cfg.JobQueueSize,
		WorkerPoolSize: cfg.WorkerPoolSize,
	}
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
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

func initGormDB(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
