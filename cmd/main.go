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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/intramural-stats/config"
	"github.com/Dosada05/intramural-stats/db"
	"github.com/Dosada05/intramural-stats/handlers"
	"github.com/Dosada05/intramural-stats/live"
	"github.com/Dosada05/intramural-stats/metrics"
	"github.com/Dosada05/intramural-stats/repositories"
	api "github.com/Dosada05/intramural-stats/routes"
	"github.com/Dosada05/intramural-stats/scheduler"
	"github.com/Dosada05/intramural-stats/services"
	"github.com/Dosada05/intramural-stats/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database migrations applied")

	var uploader storage.FileUploader
	if cfg.S3.Enabled() {
		uploader, err = storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			BucketName:      cfg.S3.Bucket,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("initialize S3 uploader: %w", err)
		}
		logger.Info("S3 uploader initialized", slog.String("bucket", cfg.S3.Bucket))
	} else {
		logger.Info("S3 not configured, team logo uploads disabled")
	}

	var notifier services.Notifier = services.LogNotifier{Logger: logger}
	if cfg.SMTP.Enabled() {
		notifier = services.NewEmailService(cfg.SMTP)
		logger.Info("SMTP reminders enabled", slog.String("host", cfg.SMTP.Host))
	}

	rec := metrics.NewRecorder()
	hub := live.NewHub(logger, rec)

	sportRepo := repositories.NewPostgresSportRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	keeperRepo := repositories.NewPostgresStatKeeperRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	statEventRepo := repositories.NewPostgresStatEventRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)
	awardRepo := repositories.NewPostgresAwardRepository(dbConn)
	reminderRepo := repositories.NewPostgresReminderRepository(dbConn)
	dashboardRepo := repositories.NewPostgresDashboardRepository(dbConn)

	sportService := services.NewSportService(sportRepo, logger)
	leagueService := services.NewLeagueService(leagueRepo, sportRepo, teamRepo)
	teamService := services.NewTeamService(dbConn, teamRepo, leagueRepo, playerRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo)
	keeperService := services.NewStatKeeperService(keeperRepo, gameRepo)
	gameService := services.NewGameService(dbConn, gameRepo, teamRepo, leagueRepo, hub, rec, logger, nil)
	statEventService := services.NewStatEventService(statEventRepo, gameRepo, playerRepo, hub, logger)
	statsService := services.NewStatsService(statsRepo, teamRepo, leagueRepo, nil)
	awardService := services.NewAwardService(awardRepo, leagueRepo, teamRepo)
	reminderService := services.NewReminderService(reminderRepo, teamRepo, gameRepo, notifier, rec, logger, nil)
	dashboardService := services.NewDashboardService(dashboardRepo, nil)

	sched, err := scheduler.New(logger)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if err := scheduler.RegisterReminderJob(sched, reminderService, cfg.ReminderCron); err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Sport:      handlers.NewSportHandler(sportService),
		League:     handlers.NewLeagueHandler(leagueService),
		Team:       handlers.NewTeamHandler(teamService),
		Game:       handlers.NewGameHandler(gameService),
		Stats:      handlers.NewStatsHandler(statsService),
		Player:     handlers.NewPlayerHandler(playerService),
		StatKeeper: handlers.NewStatKeeperHandler(keeperService),
		StatEvent:  handlers.NewStatEventHandler(statEventService),
		Award:      handlers.NewAwardHandler(awardService),
		Reminder:   handlers.NewReminderHandler(reminderService),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),
		WebSocket:  handlers.NewWebSocketHandler(hub, leagueService, logger),
	}, api.Options{
		Logger:             logger,
		Metrics:            rec,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Ping:               func(r *http.Request) error { return dbConn.PingContext(r.Context()) },
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application exited")
	return nil
}
