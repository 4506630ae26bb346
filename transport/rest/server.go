package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arcade/pkg/handlers"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error

	OnModeSelected(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error)
	OnDifficultySelected(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error)
	OnHumanMove(ctx context.Context, id string, cell int) (*usecase.MoveResult, error)

	OnRestart(ctx context.Context, id string) (*entity.Session, error)
	OnChangeMode(ctx context.Context, id string) (*entity.Session, error)
	OnResetScore(ctx context.Context, id string) (*entity.Session, error)
	OnToggleSound(ctx context.Context, id string) (*entity.Session, error)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame

	computerDelay time.Duration
	validate      *validator.Validate
}

func New(logger *slog.Logger, uGame uGame, computerDelay time.Duration) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uGame:  uGame,

		computerDelay: computerDelay,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router - every session route hangs off /api/sessions.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", handlers.PingHandler)

	router.Route("/api/sessions", func(router chi.Router) {
		router.Post("/", that.createSession)

		router.Route("/{id}", func(router chi.Router) {
			router.Get("/", that.getSession)
			router.Delete("/", that.endSession)

			router.Post("/mode", that.selectMode)
			router.Post("/difficulty", that.selectDifficulty)
			router.Post("/moves", that.makeMove)
			router.Post("/restart", that.restart)
			router.Post("/change-mode", that.changeMode)
			router.Post("/reset-score", that.resetScore)
			router.Post("/sound", that.toggleSound)
		})
	})

	return router
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
