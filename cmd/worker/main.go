package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/notifications"
	"libraryhub/internal/observability"
	"libraryhub/internal/queue/redisclient"
	"libraryhub/internal/queue/worker"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env, "libraryhub-worker")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	queue := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer func() { _ = queue.Close() }()

	pingCtx, cancel := config.WithTimeout(2 * time.Second)
	err := queue.Ping(pingCtx)
	cancel()

	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	// SMTP when configured, log-only otherwise (dev)
	var notifier notifications.Notifier

	if cfg.SMTPHost != "" {
		notifier = notifications.NewSMTPNotifier(notifications.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.MailFrom,
		})
	} else {
		log.Warn("SMTP not configured, notifications go to the log")
		notifier = notifications.NewLogNotifier()
	}

	protected := notifications.NewProtectedNotifier(notifier, notifications.ProtectedNotifierConfig{
		Timeout:          5 * time.Second,
		FailureThreshold: 3,
		Cooldown:         15 * time.Second,
		HalfOpenMaxCalls: 1,
	})

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	host, _ := os.Hostname()
	workerID := host + "-" + strconv.Itoa(os.Getpid())

	// liveness probe
	go func() {
		srv := &http.Server{
			Addr:              ":9091",
			Handler:           worker.HealthHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		_ = srv.ListenAndServe()
	}()

	w := worker.New(worker.Config{
		PopTimeout: 2 * time.Second,
		WorkerID:   workerID,
	}, queue, protected, log, prom)

	log.Info("worker has started", "worker_id", workerID)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}

	log.Info("worker shutdown complete")
}
