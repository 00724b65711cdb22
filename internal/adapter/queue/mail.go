package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"contacts-api/internal/domain/notification"
	"contacts-api/pkg/logger"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// Enqueuer is the subset of *asynq.Client used to submit tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// MailDispatcher hands emails over to the worker through the queue.
type MailDispatcher struct {
	client   Enqueuer
	maxRetry int
	log      *zap.Logger
}

// NewMailDispatcher creates a dispatcher. maxRetry bounds worker-side delivery attempts.
func NewMailDispatcher(client Enqueuer, maxRetry int, log *zap.Logger) *MailDispatcher {
	if maxRetry < 0 {
		maxRetry = 0
	}
	return &MailDispatcher{client: client, maxRetry: maxRetry, log: log}
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(email notification.Email) (*asynq.Task, error) {
	data, err := json.Marshal(email)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Dispatch enqueues email. It returns once the task is stored, not delivered.
func (d *MailDispatcher) Dispatch(ctx context.Context, email notification.Email) error {
	task, err := NewSendEmailTask(email)
	if err != nil {
		return fmt.Errorf("failed to build email task: %w", err)
	}

	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(d.maxRetry))
	if err != nil {
		logger.WithContext(ctx, d.log).Error("failed to enqueue email", zap.String("to", email.To), zap.Error(err))
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	logger.WithContext(ctx, d.log).Info("email enqueued",
		zap.String("task_id", info.ID), zap.String("queue", info.Queue), zap.String("to", email.To))
	return nil
}

// Sender delivers an email.
type Sender interface {
	Send(ctx context.Context, email notification.Email) error
}

// MailHandler processes TaskTypeSendEmail tasks.
type MailHandler struct {
	sender Sender
	log    *zap.Logger
}

// NewMailHandler creates a handler delivering through sender.
func NewMailHandler(sender Sender, log *zap.Logger) *MailHandler {
	return &MailHandler{sender: sender, log: log}
}

// ProcessTask implements asynq.Handler. Malformed payloads are not retried.
func (h *MailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var email notification.Email
	if err := json.Unmarshal(t.Payload(), &email); err != nil {
		h.log.Error("malformed email task", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if email.To == "" {
		h.log.Error("email task without recipient", zap.String("subject", email.Subject))
		return fmt.Errorf("missing recipient: %w", asynq.SkipRetry)
	}

	if err := h.sender.Send(ctx, email); err != nil {
		h.log.Warn("email delivery failed", zap.String("to", email.To), zap.Error(err))
		return err
	}

	h.log.Info("email delivered", zap.String("to", email.To), zap.String("subject", email.Subject))
	return nil
}

// Worker wraps the Asynq server that consumes the mail queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *zap.Logger
}

// NewWorker constructs a Worker serving handler on the default queue.
func NewWorker(redisOpt asynq.RedisClientOpt, concurrency int, handler *MailHandler, log *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 5
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
		Logger: log.Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeSendEmail, handler)

	return &Worker{server: srv, mux: mux, log: log}
}

// Run processes tasks until ctx is cancelled, then waits for in-flight tasks.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}

	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	w.log.Info("mail worker started", zap.String("queue", QueueDefault))

	<-ctx.Done()
	w.log.Info("shutting down mail worker")
	w.server.Shutdown()
	return nil
}
