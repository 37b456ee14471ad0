package notification

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"agriVest/pkg/metrics"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MailTransport hands a single mail to a delivery service.
type MailTransport interface {
	Send(ctx context.Context, mail domain.Mail) error
}

// MailQueue stores mail jobs until a Worker delivers them.
type MailQueue interface {
	Enqueue(ctx context.Context, job domain.MailJob) error
	Reserve(ctx context.Context, wait time.Duration) (domain.MailJob, string, error)
	Ack(ctx context.Context, receipt string) error
	Retry(ctx context.Context, receipt string, job domain.MailJob) error
	RecoverInFlight(ctx context.Context) (int, error)
}

// SyncMailer sends inline; a transport failure is returned to the caller.
type SyncMailer struct {
	transport MailTransport
}

func NewSyncMailer(transport MailTransport) *SyncMailer {
	return &SyncMailer{transport: transport}
}

func (m *SyncMailer) Send(ctx context.Context, mail domain.Mail) error {
	if err := m.transport.Send(ctx, mail); err != nil {
		metrics.MailsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send mail %q: %w", mail.Subject, err)
	}

	metrics.MailsSent.WithLabelValues("sent").Inc()
	return nil
}

// QueuedMailer only enqueues; delivery happens in a Worker.
type QueuedMailer struct {
	queue MailQueue
}

func NewQueuedMailer(queue MailQueue) *QueuedMailer {
	return &QueuedMailer{queue: queue}
}

func (m *QueuedMailer) Send(ctx context.Context, mail domain.Mail) error {
	job := domain.MailJob{ID: uuid.NewString(), Mail: mail}
	if err := m.queue.Enqueue(ctx, job); err != nil {
		return err
	}

	metrics.MailsSent.WithLabelValues("queued").Inc()
	return nil
}

// Worker drains a MailQueue into a MailTransport with at-least-once
// semantics: a job is acknowledged only after the transport accepted it.
type Worker struct {
	queue       MailQueue
	transport   MailTransport
	maxAttempts int
	wait        time.Duration
	backoff     time.Duration
}

func NewWorker(queue MailQueue, transport MailTransport, maxAttempts int) *Worker {
	return &Worker{
		queue:       queue,
		transport:   transport,
		maxAttempts: maxAttempts,
		wait:        5 * time.Second,
		backoff:     time.Second,
	}
}

// Run processes jobs until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	moved, err := w.queue.RecoverInFlight(ctx)
	if err != nil {
		logger.Error("Failed to recover in-flight mail jobs", err)
	} else if moved > 0 {
		logger.Info("Recovered in-flight mail jobs", "count", moved)
	}

	for ctx.Err() == nil {
		if err := w.ProcessOne(ctx); err != nil && !errors.Is(err, domain.ErrQueueEmpty) {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Mail worker error", err)
			sleep(ctx, w.backoff)
		}
	}
}

// ProcessOne reserves and handles a single job.
func (w *Worker) ProcessOne(ctx context.Context) error {
	job, receipt, err := w.queue.Reserve(ctx, w.wait)
	if err != nil {
		return err
	}

	sendErr := w.transport.Send(ctx, job.Mail)
	if sendErr == nil {
		metrics.MailsSent.WithLabelValues("sent").Inc()
		return w.queue.Ack(ctx, receipt)
	}

	job.Attempts++
	if job.Attempts >= w.maxAttempts {
		metrics.MailsSent.WithLabelValues("dropped").Inc()
		logger.Error("Dropping mail job after max attempts",
			"job_id", job.ID, "subject", job.Mail.Subject, "attempts", job.Attempts, "error", sendErr)
		return w.queue.Ack(ctx, receipt)
	}

	metrics.MailsSent.WithLabelValues("failed").Inc()
	logger.Warn("Mail delivery failed, retrying", "job_id", job.ID, "attempts", job.Attempts, "error", sendErr)
	return w.queue.Retry(ctx, receipt, job)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
