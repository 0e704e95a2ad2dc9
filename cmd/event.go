package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/resource-management/internal/core/events"
	"github.com/frahmantamala/resource-management/internal/notification"
	"github.com/frahmantamala/resource-management/internal/submission"
	"github.com/frahmantamala/resource-management/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Publish events through an in-process event bus to check the notification setup.`,
}

var testReminderCmd = &cobra.Command{
	Use:   "test-reminder [email]",
	Short: "Send one reminder mail through the mail worker pool",
	Long:  `Publishes a reminders-requested event for a single recipient and waits for the delivery outcome.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := sendTestReminder(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var testRecipientName string

func sendTestReminder(email string) error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(config)
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	mailer := notification.NewMailer(mailerConfig(config.Notification), eventBus, lg)
	mailer.RegisterEventHandlers(eventBus)
	defer mailer.Shutdown()

	outcome := make(chan events.Event, 1)
	record := func(ctx context.Context, event events.Event) error {
		select {
		case outcome <- event:
		default:
		}
		return nil
	}
	eventBus.Subscribe(events.EventTypeReminderSent, record)
	eventBus.Subscribe(events.EventTypeReminderFailed, record)

	week := submission.WeekStart(time.Now()).Format(time.DateOnly)
	event := events.NewRemindersRequestedEvent(uuid.NewString(), week, 0, []events.ReminderRecipient{
		{Name: testRecipientName, Email: email},
	})

	lg.Info("publishing test reminder", "event_id", event.EventID(), "to", email, "week", week)
	if err := eventBus.PublishSync(context.Background(), event); err != nil {
		return fmt.Errorf("failed to queue test reminder: %w", err)
	}

	select {
	case result := <-outcome:
		if failed, ok := result.(*events.ReminderFailedEvent); ok {
			return fmt.Errorf("test reminder failed: %s", failed.FailureReason)
		}
		lg.Info("test reminder delivered", "to", email)
		return nil
	case <-time.After(config.Notification.SendTimeout + 5*time.Second):
		return fmt.Errorf("timed out waiting for the mail worker")
	}
}

func init() {
	testReminderCmd.Flags().StringVar(&testRecipientName, "name", "", "Recipient name used in the greeting")

	eventCmd.AddCommand(testReminderCmd)

	rootCmd.AddCommand(eventCmd)
}
