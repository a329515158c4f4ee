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

	"github.com/pubgscore/tournament-service/config"
	"github.com/pubgscore/tournament-service/db"
	"github.com/pubgscore/tournament-service/handlers"
	"github.com/pubgscore/tournament-service/live"
	"github.com/pubgscore/tournament-service/pubg"
	"github.com/pubgscore/tournament-service/repositories"
	api "github.com/pubgscore/tournament-service/routes"
	"github.com/pubgscore/tournament-service/services"
	"github.com/pubgscore/tournament-service/standings"
	"github.com/pubgscore/tournament-service/state"
	"github.com/pubgscore/tournament-service/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := repositories.EnsureSchema(context.Background(), dbConn); err != nil {
		logger.Error("failed to ensure database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация загрузчика файлов (Cloudflare R2), если сконфигурирован
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("Cloudflare R2 is not configured, export upload disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Стор состояния турнира поверх снапшотов в Postgres
	snapshotRepo := repositories.NewPostgresSnapshotRepository(dbConn)
	store := state.NewStore(snapshotRepo, logger)

	// Мост стор → WebSocket: каждое изменение состояния рассылается в
	// комнату турнира.
	store.Subscribe(func(view state.View) {
		if view.Tournament == nil {
			wsHub.BroadcastToRoom(live.RoomTournament, live.Message{
				Type: live.MessageTournamentCleared,
			})
			return
		}
		wsHub.BroadcastToRoom(live.RoomTournament, live.Message{
			Type: live.MessageStandingsUpdated,
			Payload: map[string]interface{}{
				"mode":    view.Tournament.Mode,
				"teams":   standings.BuildTeamStandings(view.Teams, view.Players),
				"players": standings.BuildPlayerStandings(view.Players),
			},
		})
		if len(view.Conflicts) > 0 {
			wsHub.BroadcastToRoom(live.RoomTournament, live.Message{
				Type:    live.MessageConflictsPending,
				Payload: view.Conflicts,
			})
		}
	})

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Restore(restoreCtx); err != nil {
		if errors.Is(err, repositories.ErrSnapshotCorrupted) {
			logger.Warn("persisted snapshot is corrupted, starting with empty state", slog.Any("error", err))
		} else {
			cancelRestore()
			logger.Error("failed to restore tournament state", slog.Any("error", err))
			os.Exit(1)
		}
	}
	cancelRestore()
	logger.Info("tournament state restored")

	// Источник матчей: реальный PUBG API или мок без ключа
	matchSource := pubg.NewClient(cfg.PUBGAPIKey, logger)

	// Инициализация сервисов
	authService, err := services.NewAuthService(cfg.OrganizerPassword)
	if err != nil {
		logger.Error("failed to initialize auth service", slog.Any("error", err))
		os.Exit(1)
	}
	tournamentService := services.NewTournamentService(store, matchSource, uploader, logger)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	matchHandler := handlers.NewMatchHandler(tournamentService, cfg.DefaultShard)
	scoringHandler := handlers.NewScoringHandler(tournamentService)
	conflictHandler := handlers.NewConflictHandler(tournamentService)
	exportHandler := handlers.NewExportHandler(tournamentService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		tournamentHandler,
		matchHandler,
		scoringHandler,
		conflictHandler,
		exportHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
