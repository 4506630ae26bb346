package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/view"
)

type uGame interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error

	OnModeSelected(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error)
	OnDifficultySelected(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error)
	OnHumanMove(ctx context.Context, id string, cell int) (*usecase.MoveResult, error)

	OnRestart(ctx context.Context, id string) (*entity.Session, error)
	OnChangeMode(ctx context.Context, id string) (*entity.Session, error)
	OnResetScore(ctx context.Context, id string) (*entity.Session, error)
}

var (
	modeChoices = map[string]entity.Mode{
		"1": entity.ModePlayerVsPlayer, "pvp": entity.ModePlayerVsPlayer,
		"2": entity.ModeVsComputer, "pvc": entity.ModeVsComputer,
	}
	difficultyChoices = map[string]entity.Difficulty{
		"1": entity.DifficultyEasy, "easy": entity.DifficultyEasy,
		"2": entity.DifficultyMedium, "medium": entity.DifficultyMedium,
		"3": entity.DifficultyHard, "hard": entity.DifficultyHard,
	}
)

// Player - line-oriented game on a pair of streams, one session per run.
type Player struct {
	logger *slog.Logger
	uGame  uGame

	in  *bufio.Scanner
	out io.Writer

	computerDelay time.Duration
	sleep         func(time.Duration)
}

func New(logger *slog.Logger, uGame uGame, in io.Reader, out io.Writer, computerDelay time.Duration) *Player {
	return &Player{
		logger: logger.With("component", "terminal"),
		uGame:  uGame,

		in:  bufio.NewScanner(in),
		out: out,

		computerDelay: computerDelay,
		sleep:         time.Sleep,
	}
}

// Run - plays until q, end of input or ctx is done.
func (that *Player) Run(ctx context.Context) error {
	session, err := that.uGame.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	defer func() {
		if err := that.uGame.EndSession(context.WithoutCancel(ctx), session.ID); err != nil {
			that.logger.Error("failed to end session", "session_id", session.ID, "error", err)
		}
	}()

	that.render(session)

	for ctx.Err() == nil {
		that.prompt(session)

		if !that.in.Scan() {
			break
		}

		input := strings.ToLower(strings.TrimSpace(that.in.Text()))
		if input == "q" {
			break
		}

		next, err := that.handle(ctx, session, input)
		if err != nil {
			return err
		}

		session = next
	}

	that.printf("Bye!\n")

	return that.in.Err()
}

func (that *Player) handle(ctx context.Context, session *entity.Session, input string) (*entity.Session, error) {
	switch input {
	case "r":
		return that.apply(that.uGame.OnRestart(ctx, session.ID))
	case "m":
		return that.apply(that.uGame.OnChangeMode(ctx, session.ID))
	case "s":
		return that.apply(that.uGame.OnResetScore(ctx, session.ID))
	}

	switch session.Phase {
	case entity.PhaseModeSelect:
		mode, ok := modeChoices[input]
		if !ok {
			that.printf("Pick 1 or 2.\n")
			return session, nil
		}

		return that.apply(that.uGame.OnModeSelected(ctx, session.ID, mode))
	case entity.PhaseDifficultySelect:
		difficulty, ok := difficultyChoices[input]
		if !ok {
			that.printf("Pick 1, 2 or 3.\n")
			return session, nil
		}

		return that.apply(that.uGame.OnDifficultySelected(ctx, session.ID, difficulty))
	}

	number, err := strconv.Atoi(input)
	if err != nil {
		that.printf("Unknown command %q.\n", input)
		return session, nil
	}

	return that.move(ctx, session, number-1)
}

func (that *Player) move(ctx context.Context, session *entity.Session, cell int) (*entity.Session, error) {
	result, err := that.uGame.OnHumanMove(ctx, session.ID, cell)
	if result == nil || result.Session == nil || view.StatusCode(err) != http.StatusOK {
		return nil, fmt.Errorf("failed to play cell %d: %w", cell+1, err)
	}

	if err != nil {
		that.printf("That move is not allowed.\n")
		return result.Session, nil
	}

	if result.ComputerCell == service.NoMove {
		that.render(result.Session)
		return result.Session, nil
	}

	// show the human mark on its own first, then the computer's answer after the delay
	humanBoard := result.Session.Game.Board
	humanBoard[result.ComputerCell] = entity.EmptyCell
	that.renderBoard(&humanBoard, nil)

	that.sleep(that.computerDelay)
	that.printf("Computer plays %d\n", result.ComputerCell+1)
	that.render(result.Session)

	return result.Session, nil
}

func (that *Player) apply(session *entity.Session, err error) (*entity.Session, error) {
	if session == nil || view.StatusCode(err) != http.StatusOK {
		return nil, fmt.Errorf("failed to apply command: %w", err)
	}

	if err != nil {
		that.printf("Not now.\n")
		return session, nil
	}

	that.render(session)

	return session, nil
}

func (that *Player) prompt(session *entity.Session) {
	switch session.Phase {
	case entity.PhaseModeSelect:
		that.printf("1) Player vs Player  2) Player vs Computer  q) quit\n> ")
	case entity.PhaseDifficultySelect:
		that.printf("1) easy  2) medium  3) hard  m) back\n> ")
	case entity.PhaseRoundOver:
		that.printf("r) play again  m) change mode  s) reset score  q) quit\n> ")
	default:
		that.printf("1-9) place mark  r) restart  m) change mode  s) reset score  q) quit\n> ")
	}
}

func (that *Player) render(session *entity.Session) {
	if session.Phase == entity.PhasePlaying || session.Phase == entity.PhaseRoundOver {
		that.renderBoard(&session.Game.Board, session.Game.WinningLine)
	}

	that.printf("%s    X: %d  O: %d\n", usecase.StatusText(session), session.Scores.X, session.Scores.O)
}

// renderBoard - empty cells show the number that plays them, a winning line is bracketed.
func (that *Player) renderBoard(board *entity.Board, winningLine []int) {
	winning := make(map[int]bool, len(winningLine))
	for _, cell := range winningLine {
		winning[cell] = true
	}

	var sb strings.Builder
	for row := range 3 {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		for col := range 3 {
			cell := row*3 + col
			if col > 0 {
				sb.WriteString("|")
			}

			switch {
			case board[cell] == entity.EmptyCell:
				fmt.Fprintf(&sb, " %d ", cell+1)
			case winning[cell]:
				fmt.Fprintf(&sb, "[%s]", board[cell])
			default:
				fmt.Fprintf(&sb, " %s ", board[cell])
			}
		}

		sb.WriteString("\n")
	}

	that.printf("%s", sb.String())
}

func (that *Player) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Debug("failed to write output", "error", err)
	}
}
