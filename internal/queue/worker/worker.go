package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"libraryhub/internal/jobs"
	"libraryhub/internal/notifications"
	"libraryhub/internal/observability"
	"libraryhub/internal/queue/redisclient"
)

// Queue is the slice of the redis client the worker needs; tests fake it.
type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (jobs.Job, error)
	Enqueue(ctx context.Context, j jobs.Job) error
}

type Config struct {
	PopTimeout time.Duration
	WorkerID   string
}

type Worker struct {
	cfg      Config
	queue    Queue
	notifier notifications.Notifier
	log      *slog.Logger
	prom     *observability.Prom
}

func New(cfg Config, queue Queue, notifier notifications.Notifier, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = 2 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		queue:    queue,
		notifier: notifier,
		log:      log,
		prom:     prom,
	}
}

// Run consumes jobs until the context is cancelled. Every failure path ends
// in a log line, never an exit: notifications are best-effort by contract.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal", "worker_id", w.cfg.WorkerID)
			return nil
		default:
		}

		j, err := w.queue.Dequeue(ctx, w.cfg.PopTimeout)

		if err != nil {
			if errors.Is(err, redisclient.ErrEmpty) {
				continue
			}

			if ctx.Err() != nil {
				return nil
			}

			w.log.Error("dequeue failed", "err", err)

			// brief pause so a dead redis does not spin the loop
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		w.ProcessOne(ctx, j)
	}
}

// ProcessOne sends one notification, re-enqueueing on failure until the job
// runs out of attempts.
func (w *Worker) ProcessOne(ctx context.Context, j jobs.Job) {
	start := time.Now()
	err := w.execute(ctx, j)

	if err == nil {
		w.observeSend("sent", start)
		w.log.Debug("notification sent", "job_id", j.ID, "type", string(j.Type))
		return
	}

	j.Attempts++

	if j.Attempts >= j.MaxAttempts {
		w.observeSend("dropped", start)
		w.log.Error("notification dropped after max attempts",
			"job_id", j.ID, "attempts", j.Attempts, "err", err)
		return
	}

	w.observeSend("retry", start)
	w.log.Warn("notification failed, retrying",
		"job_id", j.ID, "attempt", j.Attempts, "err", err)

	delay := ExponentialBackoff(j.Attempts - 1)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}

	if reqErr := w.queue.Enqueue(ctx, j); reqErr != nil {
		w.log.Error("re-enqueue failed, job lost", "job_id", j.ID, "err", reqErr)
	}
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	payload, err := jobs.DecodePayload(j)

	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case jobs.BorrowConfirmationPayload:
		return w.notifier.SendBorrowConfirmation(ctx, notifications.SendBorrowConfirmationInput{
			Email:     p.Email,
			Username:  p.Username,
			BookID:    p.BookID,
			BookTitle: p.BookTitle,
			LoanID:    p.LoanID,
		})
	default:
		return jobs.ErrInvalidJobType
	}
}

func (w *Worker) observeSend(result string, start time.Time) {
	if w.prom == nil {
		return
	}

	w.prom.NotificationsTotal.WithLabelValues(result).Inc()
	w.prom.NotificationDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
