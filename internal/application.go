package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/config"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/rest"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/terminal"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - serves the HTTP and WebSocket transports until a signal arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	gameManager, closeStore, err := NewGameManager(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager, conf.ComputerDelay).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameManager, conf.ComputerDelay).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// RunTerminal - one game on in and out against the same game manager the servers use.
func RunTerminal(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gameManager, closeStore, err := NewGameManager(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	return terminal.New(logger, gameManager, in, out, conf.ComputerDelay).Run(ctx)
}

// NewGameManager - builds the session store named in conf and the game manager on top of it.
// The returned func releases the store.
func NewGameManager(ctx context.Context, logger *slog.Logger, conf *config.Config) (*usecase.GameManager, func(), error) {
	log := logger.With("component", "app")

	sessionRepo, closeStore, err := newSessionRepository(ctx, log, conf)
	if err != nil {
		return nil, nil, err
	}

	bot := service.NewBotService(NewRandom(conf.RandomSeed))

	return usecase.NewGameManager(logger, sessionRepo, bot), closeStore, nil
}

func newSessionRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.SessionRepository, func(), error) {
	if conf.SessionStore != config.SessionStoreRedis {
		log.Info("Using in-memory session store", "ttl", conf.SessionTTL)
		return repository.NewMemorySessionRepository(ctx, conf.SessionTTL), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Using redis session store", "addr", redisAddrString, "ttl", conf.SessionTTL)

	closeStore := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewSessionRepository(redisStorage.Connection, conf.SessionTTL), closeStore, nil
}

// NewRandom - seeded source for the computer player. A zero seed picks one from the clock.
func NewRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint: gosec // seeds game moves only
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
