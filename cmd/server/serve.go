package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/config"
    "github.com/iliyamo/coursehub/internal/database"
    "github.com/iliyamo/coursehub/internal/handler"
    "github.com/iliyamo/coursehub/internal/logger"
    "github.com/iliyamo/coursehub/internal/metrics"
    "github.com/iliyamo/coursehub/internal/middleware"
    "github.com/iliyamo/coursehub/internal/repository"
    "github.com/iliyamo/coursehub/internal/router"
    "github.com/iliyamo/coursehub/internal/service"
    "github.com/iliyamo/coursehub/internal/utils"
)

func newServeCmd() *cobra.Command {
    var migrate bool
    cmd := &cobra.Command{
        Use:   "serve",
        Short: "Run the HTTP API",
        RunE: func(cmd *cobra.Command, args []string) error {
            return serve(cmd.Context(), migrate)
        },
    }
    cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
    return cmd
}

func serve(ctx context.Context, migrate bool) error {
    cfg, err := config.Load()
    if err != nil {
        return err
    }
    log := logger.New(cfg.Env, cfg.LogLevel, "coursehub-api")
    defer func() { _ = log.Sync() }()

    if ctx == nil {
        ctx = context.Background()
    }
    ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
    defer stop()

    db, err := database.Open(ctx, cfg.DSN())
    if err != nil {
        return err
    }
    defer db.Close()
    log.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

    if migrate {
        if err := database.NewMigrator(db, log).Up(ctx); err != nil {
            return err
        }
    }

    reg := prometheus.NewRegistry()
    reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    m, err := metrics.New(reg)
    if err != nil {
        return err
    }

    // Rate limiting is optional; without Redis the credential endpoints
    // are unthrottled.
    rlCfg := config.LoadRateLimitConfig()
    var limiter echo.MiddlewareFunc
    if rlCfg.Enabled {
        rdb, err := config.NewRedisClient(config.LoadRedisConfig())
        if err != nil {
            log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
        } else {
            defer rdb.Close()
            limiter = middleware.NewTokenBucket(rlCfg, rdb, log, m)
        }
    }

    var publisher service.PaymentPublisher
    if cfg.RabbitURL != "" {
        publisher = &service.AMQPPublisher{URL: cfg.RabbitURL, Log: log}
    } else {
        log.Info("RABBITMQ_URL not set, payment events are not published")
    }

    users := repository.NewUserRepo(db, cfg.BcryptCost)
    courses := repository.NewCourseRepo(db)
    lessons := repository.NewLessonRepo(db)
    enrollments := repository.NewEnrollmentRepo(db)
    payments := repository.NewPaymentRepo(db)
    issuer := utils.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL(), cfg.RefreshTTL())

    authSvc := service.NewAuthService(users, issuer, log, m)
    catalogSvc := service.NewCatalogService(courses, lessons, log)
    enrollSvc := service.NewEnrollmentService(users, courses, enrollments, publisher, log, m)

    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(log), middleware.Metrics(m))

    guards := router.NewGuards(issuer, limiter)
    router.RegisterRoutes(e, db, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
    router.RegisterAuth(e, handler.NewAuthHandler(authSvc,
        handler.CookieConfig{Secure: cfg.CookieSecure, TTL: cfg.RefreshTTL()}, log), guards)
    router.RegisterCatalog(e, handler.NewCatalogHandler(catalogSvc, log), guards)
    router.RegisterEnrollment(e,
        handler.NewEnrollmentHandler(enrollSvc, log),
        handler.NewPaymentHandler(service.NewPaymentService(payments), log), guards)
    router.RegisterUsers(e, handler.NewUserHandler(service.NewUserService(users, log), log), guards)

    addr := ":" + cfg.Port
    errCh := make(chan error, 1)
    go func() {
        log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            errCh <- err
        }
        close(errCh)
    }()

    select {
    case err := <-errCh:
        return err
    case <-ctx.Done():
    }

    log.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()
    return e.Shutdown(shutdownCtx)
}
