package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/rps-backend/internal/config"
	"github.com/rocketscienceinc/rps-backend/internal/metrics"
	"github.com/rocketscienceinc/rps-backend/internal/repository"
	"github.com/rocketscienceinc/rps-backend/internal/repository/storage"
	"github.com/rocketscienceinc/rps-backend/internal/service"
	"github.com/rocketscienceinc/rps-backend/internal/usecase"
	"github.com/rocketscienceinc/rps-backend/transport/rest"
	"github.com/rocketscienceinc/rps-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type storagePinger interface {
	Ping(ctx context.Context) error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var (
		sessionRepo repository.SessionRepository
		pinger      storagePinger
	)

	switch conf.Storage {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		sessionRepo = repository.NewSessionRepository(redisStorage.Connection, conf.Game.SessionTTL)
		pinger = redisStorage
	default:
		sessionRepo = repository.NewMemorySessionRepository(conf.Game.SessionTTL, nil)
	}

	log.Info("Session storage ready", "storage", conf.Storage)

	recorder := metrics.New(prometheus.DefaultRegisterer)

	sessionService := service.NewSessionService(sessionRepo, nil)
	botService := service.NewBotService(conf.Game.RandomSeed)
	gamePlayService := service.NewGamePlayService(
		logger.With("component", "gameplay"),
		sessionService,
		botService,
		recorder,
		service.GamePlayConfig{RevealDelay: conf.Game.RevealDelay},
	)
	gameUseCase := usecase.NewGameUseCase(sessionService, gamePlayService, recorder)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameUseCase, pinger, prometheus.DefaultGatherer)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, websocket.Config{AllowedOrigins: conf.AllowedOrigins})
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
