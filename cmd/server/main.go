package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkalykov/startup-benefits/config"
	"github.com/mkalykov/startup-benefits/internal/email"
	"github.com/mkalykov/startup-benefits/internal/health"
	"github.com/mkalykov/startup-benefits/internal/infrastructure/postgres"
	ctxlog "github.com/mkalykov/startup-benefits/internal/log"
	"github.com/mkalykov/startup-benefits/internal/metrics"
	"github.com/mkalykov/startup-benefits/internal/migrate"
	"github.com/mkalykov/startup-benefits/internal/sweeper"
	"github.com/mkalykov/startup-benefits/internal/token"
	httptransport "github.com/mkalykov/startup-benefits/internal/transport/http"
	"github.com/mkalykov/startup-benefits/internal/transport/http/handler"
	"github.com/mkalykov/startup-benefits/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if !cfg.DevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	claimRepo := postgres.NewClaimRepository(pool)

	tokens := token.NewService([]byte(cfg.JWTSecret),
		cfg.MagicLinkTTL, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, tokens, sender,
		cfg.FrontendBaseURL, cfg.DevMode(), logger)
	dealUsecase := usecase.NewDealUsecase(dealRepo)
	claimUsecase := usecase.NewClaimUsecase(claimRepo, dealRepo, userRepo, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweep, err := sweeper.New(dealRepo, cfg.DealSweepSpec, logger)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.RouterDeps{
			Auth:   handler.NewAuthHandler(authUsecase, logger),
			Deals:  handler.NewDealHandler(dealUsecase, logger),
			Claims: handler.NewClaimHandler(claimUsecase, logger),
			Tokens: tokens,
			Users:  userRepo,
			Logger: logger,
		}),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	go func() {
		sweep.Sweep(ctx)
		sweep.Start(ctx)
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
