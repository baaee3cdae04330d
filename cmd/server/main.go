package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/aggregate"
	"github.com/yourusername/pitwall/internal/api"
	"github.com/yourusername/pitwall/internal/cache"
	"github.com/yourusername/pitwall/internal/chat"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/health"
	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/scheduler"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/synth"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg, err := config.LoadWithDefaults(os.Getenv("PITWALL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.LogLevel)
	log.WithFields(logrus.Fields{
		"version":     version,
		"commit":      commit,
		"environment": cfg.App.Environment,
	}).Info("starting pitwall server")

	if secretName := os.Getenv("PITWALL_SECRETS_NAME"); secretName != "" {
		region := os.Getenv("AWS_REGION")
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.WithError(err).Fatal("failed to load secrets from AWS")
		}
		log.Info("applied AWS secrets overlay")
	}

	if err := config.Validate(cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.InitRegistry()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.WithError(err).Fatal("failed to build repositories")
	}

	hot := cache.NewMemoryStore(config.DefaultSessionTTL, 5*time.Minute)
	var shared cache.Store
	if cfg.Cache.Tier == "tiered" {
		shared = cache.NewMemoryStore(config.DefaultSessionTTL, 5*time.Minute)
	}
	cacheManager := cache.NewManager(hot, shared, log)
	cacheManager.SetRecorder(metrics.CacheRecorder{})

	engine := aggregate.NewEngine(log)
	synthesizer := synth.NewSynthesizer(log)
	sessions := service.NewSessionService(repos, cacheManager, synthesizer, engine, &cfg.Cache, log)

	var completer chat.Completer
	if cfg.Assistant.Enabled {
		completer = chat.NewCompletionClient(&cfg.Assistant, log)
	}
	asker := chat.NewService(chat.NewKnowledgeBase(), completer, log)

	hub := live.NewHub(log)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Port:        fmt.Sprintf("%d", cfg.Server.HealthPort),
		Logger:      log,
	})
	healthServer.AddCheck("database", db.Ping)
	healthServer.AddCheck("cache", func(context.Context) error {
		return cacheManager.Healthy()
	})
	if err := healthServer.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start health server")
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg, log)
	}

	sched := scheduler.NewScheduler(sessions, cacheManager, hub, log)
	if cfg.Refresher.Enabled {
		cronExpr := cfg.Refresher.ScheduleCron
		if cronExpr == "" {
			cronExpr = "0 * * * *"
		}
		if err := sched.ScheduleRefresh(cronExpr, time.Now().UTC().Year()); err != nil {
			log.WithError(err).Fatal("failed to schedule cache refresh")
		}
		if cfg.Refresher.LivePollSeconds > 0 {
			if err := sched.ScheduleLivePublishing(cfg.Refresher.LivePollSeconds, cfg.Refresher.LiveSessionKey); err != nil {
				log.WithError(err).Fatal("failed to schedule live publishing")
			}
		}
		if err := sched.Start(); err != nil {
			log.WithError(err).Fatal("failed to start scheduler")
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.WithError(err).Error("scheduler shutdown failed")
			}
		}()
	}

	healthServer.SetReady(true)

	apiServer := api.NewServer(sessions, asker, hub, &cfg.Server, log)
	if err := apiServer.Start(ctx); err != nil {
		log.WithError(err).Fatal("API server failed")
	}

	log.Info("pitwall server stopped")
}

func startMetricsServer(ctx context.Context, cfg *config.Config, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		log.WithField("port", cfg.Metrics.Port).Info("metrics server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
