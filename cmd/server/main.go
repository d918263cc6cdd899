package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/door-access-admin/internal/config"
	"github.com/iliyamo/door-access-admin/internal/database"
	"github.com/iliyamo/door-access-admin/internal/handler"
	"github.com/iliyamo/door-access-admin/internal/middleware"
	"github.com/iliyamo/door-access-admin/internal/oauth"
	"github.com/iliyamo/door-access-admin/internal/queue"
	"github.com/iliyamo/door-access-admin/internal/router"
	"github.com/iliyamo/door-access-admin/internal/session"
	"github.com/iliyamo/door-access-admin/internal/utils"
	"github.com/iliyamo/door-access-admin/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevelValue()}))
	slog.SetDefault(logger)

	db, err := openStore(context.Background(), cfg.DB, logger)
	if err != nil {
		logger.Error("schema migration failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	var store session.Store
	if rdb != nil {
		defer rdb.Close()
		store = session.NewRedisStore(rdb, "door-admin:session")
	} else {
		logger.Warn("redis unavailable, sessions kept in memory and rate limiting disabled")
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)

	client := oauth.New(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI, cfg.AuthURL, cfg.TokenURL, cfg.OAuthTimeout)
	publisher := queue.NewPublisher(cfg.RabbitMQURL)
	if !publisher.Enabled() {
		logger.Info("RABBITMQ_URL not set, events are not published")
	}
	stores := handler.NewStores(db)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = web.MustRenderer()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(client, sessions), limiter)
	router.RegisterDashboard(e, handler.NewDashboardHandler(stores, sessions, publisher), sessions)
	router.RegisterDevice(e, handler.NewDeviceHandler(stores, publisher),
		utils.DeriveKey(cfg.SessionSecret, utils.PurposeDeviceToken), limiter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// openStore connects to the database and applies the schema.  An
// unreachable database is not fatal: the handle is nil and the dashboard
// runs without a store for the life of the process, its pages answering
// 500 "database unreachable" until it is restarted.  A failed migration is
// returned after the handle has been closed.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		logger.Error("database unavailable, continuing without store", "driver", cfg.Driver, "error", err)
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.Driver, err)
	}
	return db, nil
}
