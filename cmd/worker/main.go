// Command worker consumes the events published by the dashboard and the
// device API: access.recorded messages become access log entries, and
// badge and door events are written to an audit trail.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/door-access-admin/internal/config"
	"github.com/iliyamo/door-access-admin/internal/database"
	"github.com/iliyamo/door-access-admin/internal/queue"
	"github.com/iliyamo/door-access-admin/internal/repository"
)

type options struct {
	prefetch  int
	migrate   bool
	auditFile string
}

func main() {
	var opts options
	pflag.IntVar(&opts.prefetch, "prefetch", 50, "maximum unacknowledged messages held by the worker")
	pflag.BoolVar(&opts.migrate, "migrate", true, "create missing tables before consuming")
	pflag.StringVar(&opts.auditFile, "audit-file", "", "append audit records to this file instead of stdout")
	pflag.Parse()

	cfg, err := config.LoadWorker()
	if err != nil {
		slog.Error("configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, opts, logger)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// run owns every resource the worker opens, so all of them are released
// before main decides on the exit code.
func run(ctx context.Context, cfg config.WorkerConfig, opts options, logger *slog.Logger) error {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("database unavailable (%s): %w", cfg.DB.Driver, err)
	}
	defer db.Close()

	if opts.migrate {
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			return fmt.Errorf("schema migration: %w", err)
		}
	}

	audit := logger.With("component", "audit")
	if opts.auditFile != "" {
		f, err := os.OpenFile(opts.auditFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return fmt.Errorf("audit file: %w", err)
		}
		defer f.Close()
		audit = auditLogger(f)
	}

	consumer := queue.NewConsumer(cfg.RabbitMQURL, opts.prefetch, logger)
	consumer.Handle(queue.QueueAccessRecorded, queue.RecordAccess(repository.NewAccessLogRepo(db), logger))
	for name, h := range queue.AuditHandlers(audit) {
		consumer.Handle(name, h)
	}
	return consumer.Run(ctx)
}

func auditLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, nil))
}
