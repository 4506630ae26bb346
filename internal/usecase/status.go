package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// StatusText - the one-line status shown above the board.
func StatusText(session *entity.Session) string {
	switch session.Phase {
	case entity.PhaseModeSelect:
		return "Choose game mode"
	case entity.PhaseDifficultySelect:
		return "Select difficulty"
	case entity.PhaseRoundOver:
		return resultText(session)
	}

	if session.IsVsComputer() {
		if session.Game.CurrentPlayer == session.PlayerMark {
			return fmt.Sprintf("Player vs Computer (%s) - Your turn", session.Difficulty)
		}

		return fmt.Sprintf("Player vs Computer (%s) - Computer's turn", session.Difficulty)
	}

	return fmt.Sprintf("Player %s's turn", session.Game.CurrentPlayer)
}

func resultText(session *entity.Session) string {
	switch {
	case session.Game.Draw:
		return "It's a draw!"
	case session.IsVsComputer() && session.Game.Winner == session.PlayerMark:
		return "You win!"
	case session.IsVsComputer():
		return "Computer wins!"
	default:
		return fmt.Sprintf("Player %s wins!", session.Game.Winner)
	}
}
