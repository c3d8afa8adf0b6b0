package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/sleeperstats/internal/api/fantasy"
	"github.com/omarshaarawi/sleeperstats/internal/api/sleeper"
	"github.com/omarshaarawi/sleeperstats/internal/awards"
	"github.com/omarshaarawi/sleeperstats/internal/bot"
	"github.com/omarshaarawi/sleeperstats/internal/config"
	"github.com/omarshaarawi/sleeperstats/internal/history"
	"github.com/omarshaarawi/sleeperstats/internal/logger"
	"github.com/omarshaarawi/sleeperstats/internal/mcpserver"
	"github.com/omarshaarawi/sleeperstats/internal/repository/memory"
	"github.com/omarshaarawi/sleeperstats/internal/repository/redis"
	"github.com/omarshaarawi/sleeperstats/internal/repository/sqlite"
	"github.com/omarshaarawi/sleeperstats/internal/scheduler"
	"github.com/omarshaarawi/sleeperstats/internal/service"
	"github.com/omarshaarawi/sleeperstats/internal/settings"
)

type kvStore interface {
	settings.KV
	Close() error
}

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sleeperClient := sleeper.NewClient(cfg.SleeperAPI)
	sleeperAPI := sleeper.NewAPI(sleeperClient)

	repo := memory.NewRepository()
	fantasyAPI := fantasy.NewAPI(sleeperAPI, repo)
	aggregator := history.NewAggregator(fantasyAPI, repo, cfg.SleeperAPI.FetchConcurrency)

	kv, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("Error closing settings store", "error", err)
		}
	}()

	dashboard := service.NewDashboard(
		cfg.SleeperAPI.LeagueID,
		fantasyAPI,
		aggregator,
		settings.NewStore(kv),
		awards.Thresholds{
			TradeMargin:  cfg.Awards.TradeMargin,
			WaiverPoints: cfg.Awards.WaiverPoints,
		},
	)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, dashboard)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(cfg.Scheduler, dashboard, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mcpserver.New(dashboard).Register(mux, "/mcp")

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if _, err := aggregator.Load(ctx, cfg.SleeperAPI.LeagueID); err != nil {
			slog.Error("Initial history load failed", "league_id", cfg.SleeperAPI.LeagueID, "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	return nil
}

func openStore(ctx context.Context, cfg config.Store) (kvStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return sqlite.NewKV(cfg.SQLitePath)
	case "redis":
		return redis.NewKV(ctx, cfg)
	case "memory":
		slog.Warn("Using in-memory settings store, settings are lost on restart")
		return memory.NewKV(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
