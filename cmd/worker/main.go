package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"contacts-api/cmd/api/app"
	"contacts-api/cmd/api/infrastructure"
	"contacts-api/internal/adapter/mailer"
	"contacts-api/internal/adapter/queue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("mail worker exited with error: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := app.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer app.SyncLogger(l)
	l = l.With(zap.String("component", "mail-worker"))

	sender, err := mailer.NewSMTPSender(mailer.Config{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SMTPUser,
		Password: cfg.Mail.SMTPPassword,
		From:     cfg.Mail.From,
	}, l)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	w := queue.NewWorker(infrastructure.QueueRedisOpt(cfg), cfg.Mail.Concurrency, queue.NewMailHandler(sender, l), l)

	l.Info("starting mail worker",
		zap.String("smtp_host", cfg.Mail.SMTPHost),
		zap.Int("smtp_port", cfg.Mail.SMTPPort),
		zap.Int("concurrency", cfg.Mail.Concurrency),
	)
	return w.Run(ctx)
}
