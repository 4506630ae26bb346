package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
)

var tracer = otel.Tracer("usecase")

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	ChooseMove(board entity.Board, difficulty entity.Difficulty, computerMark, playerMark entity.Mark) int
}

// MoveResult - what a human move led to. ComputerCell is service.NoMove when the computer did not answer.
type MoveResult struct {
	HumanCell    int
	ComputerCell int
	Outcome      tictactoe.Outcome
	Session      *entity.Session
}

type GameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	bot         botService

	locks *sessionLocks
	newID func() string
	now   func() time.Time
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, bot botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		bot:         bot,

		locks: newSessionLocks(),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// NewSession - starts a visit: empty board, no mode chosen yet.
func (that *GameManager) NewSession(ctx context.Context) (*entity.Session, error) {
	ctx, span := tracer.Start(ctx, "usecase.NewSession")
	defer span.End()

	session := entity.NewSession(that.newID(), that.now())
	span.SetAttributes(attribute.String("session.id", session.ID))

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store session")
		return nil, fmt.Errorf("failed create session: %w", err)
	}

	that.logger.Debug("session created", "session_id", session.ID)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	ctx, span := tracer.Start(ctx, "usecase.GetSession", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	return session, nil
}

// EndSession - drops the session and everything it scored.
func (that *GameManager) EndSession(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "usecase.EndSession", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	unlock := that.locks.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed delete session: %w", err)
	}

	that.logger.Debug("session ended", "session_id", id)

	return nil
}

// OnModeSelected - pvp starts the round right away, pvc asks for a difficulty first.
func (that *GameManager) OnModeSelected(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error) {
	return that.update(ctx, id, "OnModeSelected", func(session *entity.Session) error {
		if !mode.IsValid() {
			return fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
		}

		if session.Phase != entity.PhaseModeSelect {
			return fmt.Errorf("%w: mode in phase %s", apperror.ErrInvalidTransition, session.Phase)
		}

		session.Mode = mode
		session.Difficulty = entity.DifficultyUnset
		tictactoe.NewRound(&session.Game)

		if mode == entity.ModeVsComputer {
			session.Phase = entity.PhaseDifficultySelect
		} else {
			session.Phase = entity.PhasePlaying
		}

		return nil
	})
}

func (that *GameManager) OnDifficultySelected(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error) {
	return that.update(ctx, id, "OnDifficultySelected", func(session *entity.Session) error {
		if !difficulty.IsValid() {
			return fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
		}

		if session.Phase != entity.PhaseDifficultySelect {
			return fmt.Errorf("%w: difficulty in phase %s", apperror.ErrInvalidTransition, session.Phase)
		}

		session.Difficulty = difficulty
		session.Phase = entity.PhasePlaying
		tictactoe.NewRound(&session.Game)

		return nil
	})
}

// OnHumanMove - plays cell for the side to move and, against the computer, answers right away.
// Rejected moves return the unchanged session together with the reason.
func (that *GameManager) OnHumanMove(ctx context.Context, id string, cell int) (*MoveResult, error) {
	result := &MoveResult{
		HumanCell:    cell,
		ComputerCell: service.NoMove,
	}

	session, err := that.update(ctx, id, "OnHumanMove", func(session *entity.Session) error {
		if !session.IsPlaying() {
			return fmt.Errorf("%w: move in phase %s", apperror.ErrInvalidTransition, session.Phase)
		}

		if session.IsVsComputer() && session.Game.CurrentPlayer != session.PlayerMark {
			return apperror.ErrNotYourTurn
		}

		outcome, err := tictactoe.MakeTurn(&session.Game, cell)
		if err != nil {
			return err
		}

		settle(session, outcome)
		result.Outcome = outcome

		if outcome != tictactoe.OutcomeContinue || !session.IsComputerTurn() {
			return nil
		}

		computerCell := that.bot.ChooseMove(session.Game.Board, session.Difficulty, session.ComputerMark, session.PlayerMark)
		if computerCell == service.NoMove {
			return nil
		}

		outcome, err = tictactoe.MakeTurn(&session.Game, computerCell)
		if err != nil {
			return fmt.Errorf("%w: cell %d: %w", apperror.ErrComputerMove, computerCell, err)
		}

		settle(session, outcome)
		result.Outcome = outcome
		result.ComputerCell = computerCell

		return nil
	})

	result.Session = session
	if err != nil {
		return result, err
	}

	that.logger.Debug("move played",
		"session_id", id, "cell", cell, "computer_cell", result.ComputerCell, "outcome", result.Outcome.String())

	return result, nil
}

// OnRestart - new round with the same mode and difficulty. Scores stay.
func (that *GameManager) OnRestart(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, "OnRestart", func(session *entity.Session) error {
		restartRound(session)
		return nil
	})
}

// OnChangeMode - back to mode selection with mode and difficulty cleared.
func (that *GameManager) OnChangeMode(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, "OnChangeMode", func(session *entity.Session) error {
		session.Mode = entity.ModeUnset
		session.Difficulty = entity.DifficultyUnset
		session.Phase = entity.PhaseModeSelect
		tictactoe.NewRound(&session.Game)

		return nil
	})
}

func (that *GameManager) OnResetScore(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, "OnResetScore", func(session *entity.Session) error {
		session.Scores.Reset()
		restartRound(session)

		return nil
	})
}

func (that *GameManager) OnToggleSound(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, "OnToggleSound", func(session *entity.Session) error {
		session.SoundEnabled = !session.SoundEnabled
		return nil
	})
}

// update - loads the session under its lock, applies change and stores the result.
// Rule violations come back with the stored, unchanged session; change must not touch it before failing.
func (that *GameManager) update(
	ctx context.Context, id, method string, change func(session *entity.Session) error,
) (*entity.Session, error) {
	log := that.logger.With("method", method, "session_id", id)

	ctx, span := tracer.Start(ctx, "usecase."+method, trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	unlock := that.locks.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load session")
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	if err = change(session); err != nil {
		if isRuleError(err) {
			log.Debug("event ignored", "reason", err)
			span.SetAttributes(attribute.String("event.ignored", err.Error()))
			return session, err
		}

		log.Error("failed to apply event", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to apply event")
		return nil, fmt.Errorf("failed %s: %w", method, err)
	}

	session.UpdatedAt = that.now()

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		log.Error("failed to store session", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store session")
		return nil, fmt.Errorf("failed update session: %w", err)
	}

	span.SetAttributes(attribute.String("session.phase", string(session.Phase)))

	return session, nil
}

func isRuleError(err error) bool {
	return apperror.IsIgnorable(err) ||
		errors.Is(err, apperror.ErrUnknownMode) ||
		errors.Is(err, apperror.ErrUnknownDifficulty)
}

// settle - scores a finished round and closes it.
func settle(session *entity.Session, outcome tictactoe.Outcome) {
	switch outcome {
	case tictactoe.OutcomeWin:
		session.Scores.Increment(session.Game.Winner)
		session.Phase = entity.PhaseRoundOver
	case tictactoe.OutcomeDraw:
		session.Phase = entity.PhaseRoundOver
	case tictactoe.OutcomeContinue:
	}
}

// restartRound - fresh board. A finished round goes back to play, selection phases stay where they are.
func restartRound(session *entity.Session) {
	tictactoe.NewRound(&session.Game)

	if session.Phase == entity.PhaseRoundOver {
		session.Phase = entity.PhasePlaying
	}
}
