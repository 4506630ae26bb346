package view

import (
	"errors"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

// Session - what presentation clients render: the board, the status line and the score panel.
type Session struct {
	ID            string            `json:"id"`
	Board         entity.Board      `json:"board"`
	CurrentPlayer entity.Mark       `json:"current_player"`
	Active        bool              `json:"active"`
	Winner        entity.Mark       `json:"winner,omitempty"`
	Draw          bool              `json:"draw"`
	WinningLine   []int             `json:"winning_line,omitempty"`
	Mode          entity.Mode       `json:"mode,omitempty"`
	Difficulty    entity.Difficulty `json:"difficulty,omitempty"`
	Phase         entity.Phase      `json:"phase"`
	Scores        entity.Scores     `json:"scores"`
	Status        string            `json:"status"`
	SoundEnabled  bool              `json:"sound_enabled"`

	// ComputerCell is set when the computer answered the last move; clients reveal it after ComputerDelayMS.
	ComputerCell    *int   `json:"computer_cell,omitempty"`
	ComputerDelayMS int64  `json:"computer_delay_ms"`
	Ignored         string `json:"ignored,omitempty"`
}

func FromSession(session *entity.Session, computerDelay time.Duration) *Session {
	return &Session{
		ID:              session.ID,
		Board:           session.Game.Board,
		CurrentPlayer:   session.Game.CurrentPlayer,
		Active:          session.Game.Active,
		Winner:          session.Game.Winner,
		Draw:            session.Game.Draw,
		WinningLine:     session.Game.WinningLine,
		Mode:            session.Mode,
		Difficulty:      session.Difficulty,
		Phase:           session.Phase,
		Scores:          session.Scores,
		Status:          usecase.StatusText(session),
		SoundEnabled:    session.SoundEnabled,
		ComputerDelayMS: computerDelay.Milliseconds(),
	}
}

func FromMoveResult(result *usecase.MoveResult, computerDelay time.Duration) *Session {
	sessionView := FromSession(result.Session, computerDelay)
	if result.ComputerCell != service.NoMove {
		cell := result.ComputerCell
		sessionView.ComputerCell = &cell
	}

	return sessionView
}

// WithIgnored - marks the view as the unchanged answer to a rejected event.
func (that *Session) WithIgnored(err error) *Session {
	if err != nil {
		that.Ignored = err.Error()
	}

	return that
}

// StatusCode - HTTP status for an error returned by the game manager.
// Ignorable errors map to 200 since the unchanged session is still a valid answer.
func StatusCode(err error) int {
	switch {
	case err == nil, apperror.IsIgnorable(err):
		return http.StatusOK
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnknownMode), errors.Is(err, apperror.ErrUnknownDifficulty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
