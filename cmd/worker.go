package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/resource-management/internal/core/events"
	"github.com/frahmantamala/resource-management/internal/notification"
	resourcePostgres "github.com/frahmantamala/resource-management/internal/resource/postgres"
	"github.com/frahmantamala/resource-management/internal/submission"
	submissionPostgres "github.com/frahmantamala/resource-management/internal/submission/postgres"
	"github.com/frahmantamala/resource-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that run next to the HTTP server.`,
}

var reminderWorkerCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Redeliver reminders stuck in the queued state",
	Long: `Periodically picks up reminder_logs rows that are still queued after --stale-after
(for example because the server stopped before the mail pool drained) and sends them again
through a dedicated mail worker pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		startReminderWorker()
	},
}

var (
	maxWorkers     int
	jobQueueSize   int
	workerPoolSize int
	mailAPIURL     string
	mailAPIKey     string
	pollInterval   time.Duration
	staleAfter     time.Duration
)

func startReminderWorker() {
	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(config)
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(config.Database)
	if err != nil {
		lg.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	db, err := initGormDB(sqlDB)
	if err != nil {
		lg.Error("failed to initialize gorm", "error", err)
		os.Exit(1)
	}

	mailCfg := mailerConfig(config.Notification)
	mailCfg.MailAPIURL = getStringFlag(mailAPIURL, mailCfg.MailAPIURL)
	mailCfg.APIKey = getStringFlag(mailAPIKey, mailCfg.APIKey)
	mailCfg.MaxWorkers = getIntFlag(maxWorkers, mailCfg.MaxWorkers)
	mailCfg.JobQueueSize = getIntFlag(jobQueueSize, mailCfg.JobQueueSize)
	mailCfg.WorkerPoolSize = getIntFlag(workerPoolSize, mailCfg.WorkerPoolSize)

	lg.Info("starting reminder worker",
		"max_workers", mailCfg.MaxWorkers,
		"job_queue_size", mailCfg.JobQueueSize,
		"worker_pool_size", mailCfg.WorkerPoolSize,
		"interval", pollInterval,
		"stale_after", staleAfter)

	eventBus := events.NewEventBus(lg)
	mailer := notification.NewMailer(mailCfg, eventBus, lg)
	mailer.RegisterEventHandlers(eventBus)

	service := submission.NewService(
		submissionPostgres.NewSubmissionRepository(db),
		resourcePostgres.NewResourceRepository(db),
		eventBus,
		lg,
	)
	submission.NewEventHandler(service, lg).RegisterEventHandlers(eventBus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	lg.Info("reminder worker is running. Press Ctrl+C to stop.")
	for {
		n, err := service.RequeueStale(ctx, staleAfter)
		if err != nil {
			lg.Error("requeue stale reminders failed", "error", err, "requeued", n)
		} else if n > 0 {
			lg.Info("requeued stale reminders", "count", n)
		}

		select {
		case <-ctx.Done():
			lg.Info("received signal, shutting down reminder worker")
			shutdownMailer(mailer, eventBus)
			return
		case <-ticker.C:
		}
	}
}

func shutdownMailer(mailer *notification.Mailer, eventBus *events.EventBus) {
	lg := logger.LoggerWrapper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		mailer.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		lg.Info("mail worker pool shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
		return
	}

	if err := eventBus.Wait(ctx); err != nil {
		lg.Warn("reminder status updates still running at shutdown", "error", err)
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	reminderWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of mail workers (overrides config)")
	reminderWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	reminderWorkerCmd.Flags().IntVar(&workerPoolSize, "worker-pool-size", 0, "Worker pool channel size (overrides config)")
	reminderWorkerCmd.Flags().StringVar(&mailAPIURL, "mail-api-url", "", "Mail API URL (overrides config)")
	reminderWorkerCmd.Flags().StringVar(&mailAPIKey, "mail-api-key", "", "Mail API key (overrides config)")
	reminderWorkerCmd.Flags().DurationVar(&pollInterval, "interval", time.Minute, "How often to look for stale reminders")
	reminderWorkerCmd.Flags().DurationVar(&staleAfter, "stale-after", 10*time.Minute, "Age after which a queued reminder is sent again")

	workerCmd.AddCommand(reminderWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
