package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pcbank/banking-api/internal/config"
	"github.com/pcbank/banking-api/internal/handler"
	"github.com/pcbank/banking-api/internal/logging"
	"github.com/pcbank/banking-api/internal/middleware"
	"github.com/pcbank/banking-api/internal/repository"
	"github.com/pcbank/banking-api/internal/service"
	"github.com/pcbank/banking-api/internal/service/transfer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("banking-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accounts := repository.NewAccountRepository(db)
	records := repository.NewTransferRecordRepository(db)
	billers := repository.NewBillerRepository(db)
	linked := repository.NewLinkedAccountRepository(db)
	idempotency := repository.NewIdempotencyRepository(db)

	transferSvc := transfer.NewService(accounts, records, billers, linked, db, cfg)
	accountSvc := service.NewAccountService(accounts)
	historySvc := service.NewHistoryService(accounts, records)

	transferH := handler.NewTransferHandler(transferSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	historyH := handler.NewHistoryHandler(historySvc)
	healthH := handler.NewHealthHandler(db)

	authed := middleware.Auth(cfg.JWTSecret)
	idem := middleware.Idempotency(idempotency)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthH.Liveness)
	mux.HandleFunc("GET /health/ready", healthH.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	route := func(pattern string, h http.HandlerFunc, mw ...func(http.Handler) http.Handler) {
		var wrapped http.Handler = h
		for i := len(mw) - 1; i >= 0; i-- {
			wrapped = mw[i](wrapped)
		}
		mux.Handle(pattern, wrapped)
	}
	metrics := func(routeLabel string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return middleware.Metrics(routeLabel, next)
		}
	}

	route("POST /api/v1/transfers/own", transferH.CreateOwn, authed, idem, metrics("/api/v1/transfers/own"))
	route("POST /api/v1/transfers", transferH.CreateAny, authed, idem, metrics("/api/v1/transfers"))
	route("POST /api/v1/payments/bills", transferH.CreateBillPayment, authed, idem, metrics("/api/v1/payments/bills"))
	route("POST /api/v1/deposits", transferH.CreateDeposit, authed, idem, metrics("/api/v1/deposits"))
	route("GET /api/v1/accounts", accountH.List, authed, metrics("/api/v1/accounts"))
	route("GET /api/v1/accounts/{id}/balance", accountH.Balance, authed, metrics("/api/v1/accounts/{id}/balance"))
	route("GET /api/v1/transactions", historyH.List, authed, metrics("/api/v1/transactions"))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
