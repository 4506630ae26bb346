package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeWin
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "continue"
	}
}

// NewRound - empties the board and hands the first move to X.
func NewRound(gameInstance *entity.Game) {
	*gameInstance = *entity.NewGame()
}

// MakeTurn - plays the current player's mark at cell and settles the round.
func MakeTurn(gameInstance *entity.Game, cell int) (Outcome, error) {
	mover := gameInstance.CurrentPlayer

	if err := ApplyMove(gameInstance, cell, mover); err != nil {
		return OutcomeContinue, fmt.Errorf("invalid turn: %w", err)
	}

	switch {
	case CheckWin(gameInstance):
		gameInstance.Active = false
		gameInstance.Winner = mover
		return OutcomeWin, nil
	case CheckDraw(gameInstance):
		gameInstance.Active = false
		gameInstance.Draw = true
		return OutcomeDraw, nil
	default:
		SwitchPlayer(gameInstance)
		return OutcomeContinue, nil
	}
}

// ApplyMove - places mark at cell. The board is left untouched on error.
func ApplyMove(gameInstance *entity.Game, cell int, mark entity.Mark) error {
	if !gameInstance.Active {
		return apperror.ErrInactiveSession
	}

	if err := validateMove(&gameInstance.Board, cell); err != nil {
		return err
	}

	gameInstance.Board[cell] = mark

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(board *entity.Board, cell int) error {
	if !board.IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// CheckWin - reports a completed triple and records it for highlighting.
func CheckWin(gameInstance *entity.Game) bool {
	line, ok := gameInstance.Board.WinningLine()
	if !ok {
		gameInstance.WinningLine = nil
		return false
	}

	gameInstance.WinningLine = line[:]

	return true
}

// CheckDraw - true when every cell is taken. Only meaningful after CheckWin returned false.
func CheckDraw(gameInstance *entity.Game) bool {
	return gameInstance.Board.IsFull()
}

func SwitchPlayer(gameInstance *entity.Game) {
	gameInstance.CurrentPlayer = gameInstance.CurrentPlayer.Opponent()
}
