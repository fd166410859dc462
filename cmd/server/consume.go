package main

import (
    "context"
    "errors"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/config"
    "github.com/iliyamo/coursehub/internal/logger"
    "github.com/iliyamo/coursehub/internal/queue"
)

func newConsumeCmd() *cobra.Command {
    var logPath string
    cmd := &cobra.Command{
        Use:   "consume-payments",
        Short: "Append payment.recorded events to the audit log",
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := config.Load()
            if err != nil {
                return err
            }
            if cfg.RabbitURL == "" {
                return fmt.Errorf("RABBITMQ_URL is required")
            }
            if logPath == "" {
                logPath = cfg.PaymentLogPath
            }
            log := logger.New(cfg.Env, cfg.LogLevel, "coursehub-payment-consumer")
            defer func() { _ = log.Sync() }()

            ctx := cmd.Context()
            if ctx == nil {
                ctx = context.Background()
            }
            ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
            defer stop()

            log.Info("consuming payments", zap.String("queue", queue.PaymentQueueName), zap.String("log_path", logPath))
            c := &queue.PaymentConsumer{URL: cfg.RabbitURL, LogPath: logPath, Log: log}
            if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
                return err
            }
            return nil
        },
    }
    cmd.Flags().StringVar(&logPath, "log-path", "", "audit file (defaults to PAYMENT_LOG_PATH)")
    return cmd
}
