package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/resource-management/internal/core/events"
	"github.com/go-resty/resty/v2"
)

var ErrQueueFull = errors.New("reminder queue full")

type ReminderJob struct {
	BatchID       string
	WeekStartDate string
	Recipient     events.ReminderRecipient
}

type Worker struct {
	ID         int
	WorkerPool chan chan ReminderJob
	JobChannel chan ReminderJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan ReminderJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan ReminderJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(ReminderJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("mail worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("mail worker processing job", "worker_id", w.ID, "resource_id", job.Recipient.ResourceID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("mail worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MailAPIURL     string
	APIKey         string
	Sender         string
	SendTimeout    time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Mailer sends reminder mails from a bounded queue drained by a fixed worker pool.
// Each reminder is attempted once.
type Mailer struct {
	http      *resty.Client
	sender    string
	dryRun    bool
	publisher EventPublisher
	logger    *slog.Logger

	jobQueue   chan ReminderJob
	workerPool chan chan ReminderJob
	maxWorkers int
	enqueueMu  sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewMailer(config Config, publisher EventPublisher, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	timeout := config.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetBaseURL(strings.TrimRight(config.MailAPIURL, "/")).
		SetHeader("Content-Type", "application/json")
	if config.APIKey != "" {
		client.SetAuthToken(config.APIKey)
	}

	m := &Mailer{
		http:      client,
		sender:    config.Sender,
		dryRun:    config.MailAPIURL == "",
		publisher: publisher,
		logger:    logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan ReminderJob, jobQueueSize),
		workerPool: make(chan chan ReminderJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()

	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {
		for i := 0; i < m.maxWorkers; i++ {
			worker := NewWorker(i, m.workerPool, m.logger)
			worker.Start(m.ctx, &m.wg, m.processJob)
		}

		m.wg.Add(1)
		go m.dispatch()

		m.logger.Info("reminder mail worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue),
			"dry_run", m.dryRun)
	})
}

func (m *Mailer) dispatch() {
	defer m.wg.Done()

	for {
		select {
		case job := <-m.jobQueue:
			select {
			case jobChannel := <-m.workerPool:
				select {
				case jobChannel <- job:
				case <-m.ctx.Done():
					m.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-m.ctx.Done():
				m.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-m.ctx.Done():
			m.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down reminder mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("reminder mailer shutdown complete")
}

// QueueStats reports how many reminders wait for a worker and the queue capacity.
func (m *Mailer) QueueStats() (queued, capacity int) {
	return len(m.jobQueue), cap(m.jobQueue)
}

// Enqueue accepts the whole batch or none of it.
func (m *Mailer) Enqueue(jobs []ReminderJob) error {
	m.enqueueMu.Lock()
	defer m.enqueueMu.Unlock()

	if free := cap(m.jobQueue) - len(m.jobQueue); free < len(jobs) {
		m.logger.Warn("reminder queue full, rejecting batch",
			"jobs", len(jobs),
			"free", free,
			"queue_capacity", cap(m.jobQueue))
		return fmt.Errorf("%w: %d reminders requested, %d slots free", ErrQueueFull, len(jobs), free)
	}

	for _, job := range jobs {
		m.jobQueue <- job
	}
	m.logger.Info("reminder jobs queued", "jobs", len(jobs), "queue_length", len(m.jobQueue))
	return nil
}

func (m *Mailer) HandleRemindersRequested(ctx context.Context, event events.Event) error {
	requested, ok := event.(*events.RemindersRequestedEvent)
	if !ok {
		m.logger.Error("invalid event type for reminders requested handler", "event_type", event.EventType())
		return fmt.Errorf("expected RemindersRequestedEvent, got %T", event)
	}

	jobs := make([]ReminderJob, 0, len(requested.Recipients))
	for _, r := range requested.Recipients {
		jobs = append(jobs, ReminderJob{
			BatchID:       requested.BatchID,
			WeekStartDate: requested.WeekStartDate,
			Recipient:     r,
		})
	}
	return m.Enqueue(jobs)
}

func (m *Mailer) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeRemindersRequested, m.HandleRemindersRequested)

	m.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeRemindersRequested})
}

type MailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func ReminderMessage(sender string, job ReminderJob) MailMessage {
	name := job.Recipient.Name
	if name == "" {
		name = "there"
	}
	return MailMessage{
		From:    sender,
		To:      job.Recipient.Email,
		Subject: fmt.Sprintf("Timesheet reminder: week of %s", job.WeekStartDate),
		Text: fmt.Sprintf("Hi %s,\n\nyour timesheet for the week starting %s has not been submitted yet. "+
			"Please book your hours and submit it.\n", name, job.WeekStartDate),
	}
}

func (m *Mailer) processJob(job ReminderJob) {
	if err := m.send(job); err != nil {
		m.logger.Error("reminder mail failed",
			"batch_id", job.BatchID,
			"resource_id", job.Recipient.ResourceID,
			"error", err)
		m.publish(events.NewReminderFailedEvent(job.BatchID, job.Recipient.ResourceID, job.Recipient.Email, err.Error()))
		return
	}

	m.logger.Info("reminder mail sent",
		"batch_id", job.BatchID,
		"resource_id", job.Recipient.ResourceID)
	m.publish(events.NewReminderSentEvent(job.BatchID, job.Recipient.ResourceID, job.Recipient.Email))
}

func (m *Mailer) send(job ReminderJob) error {
	if job.Recipient.Email == "" {
		return errors.New("recipient has no email address")
	}

	msg := ReminderMessage(m.sender, job)
	if m.dryRun {
		m.logger.Info("mail api not configured, reminder logged only",
			"to", msg.To,
			"subject", msg.Subject)
		return nil
	}

	resp, err := m.http.R().
		SetContext(m.ctx).
		SetBody(msg).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("mail api request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api returned %s", resp.Status())
	}
	return nil
}

func (m *Mailer) publish(event events.Event) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.Publish(m.ctx, event); err != nil {
		m.logger.Warn("failed to publish mail outcome", "event_type", event.EventType(), "error", err)
	}
}
