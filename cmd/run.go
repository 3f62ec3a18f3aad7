package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leetstreak/announcer"
	"leetstreak/api"
	"leetstreak/config"
	"leetstreak/database"
	"leetstreak/events"
	"leetstreak/leetcode"
	"leetstreak/metrics"
	"leetstreak/repository"
	"leetstreak/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured level and picks the JSON formatter in production
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("logLevel", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Run initializes and starts the HTTP service
func Run(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting leetstreak...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), database.PoolOptions{MaxConns: cfg.DatabaseMaxConns})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("Closing database connection...")
		db.Close()
	}()
	log.Info("Database connection established successfully")

	// Initialize event bus and its subscribers
	eventBus := events.NewBus()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)
	recorder.Subscribe(eventBus)

	announcerCfg := announcer.Config{Token: cfg.DiscordToken, ChannelID: cfg.DiscordChannelID}
	if announcerCfg.Enabled() {
		discord, err := announcer.New(announcerCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord announcer: %w", err)
		}
		discord.Subscribe(eventBus)
		defer func() {
			if err := discord.Close(); err != nil {
				log.WithError(err).Warn("Error closing Discord session")
			}
		}()
	} else {
		log.Info("Discord announcements disabled")
	}

	// Initialize repositories and the profile fetcher
	userRepo := repository.NewUserRepository(db)
	tournamentRepo := repository.NewTournamentRepository(db)
	historyRepo := repository.NewPointHistoryRepository(db)
	fetcher := leetcode.NewClient(leetcode.Config{
		URL:     cfg.LeetCodeGraphQLURL,
		Timeout: cfg.ProfileFetchTimeout,
		RPS:     cfg.ProfileFetchRPS,
		Burst:   cfg.ProfileFetchBurst,
	})

	// Initialize services
	points := service.NewPointsLedger(userRepo, eventBus)
	saves := service.NewStreakSaveLedger(userRepo, eventBus)
	reconciler := service.NewReconciler(tournamentRepo, userRepo, fetcher, points, saves, eventBus, service.SystemClock)
	settings := service.TournamentSettings{
		DefaultDuration: time.Duration(cfg.DefaultTournamentHours) * time.Hour,
		JoinWindow:      cfg.JoinWindow,
	}

	router := api.NewRouter(api.Services{
		Users:       service.NewUserService(userRepo, historyRepo, fetcher, points),
		StreakSaves: saves,
		Progression: service.NewProgressionService(userRepo),
		Tournaments: service.NewTournamentService(tournamentRepo, userRepo, fetcher, points, reconciler, eventBus, settings, service.SystemClock),
	}, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        recorder,
	})

	server := api.NewServer(cfg.HTTPAddr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        cfg.HTTPAddr,
			"environment": cfg.Environment,
		}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for context cancellation or a server failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Shutdown timeout exceeded")
	}

	log.Info("Shutdown completed")
	return nil
}
