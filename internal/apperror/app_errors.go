package apperror

import "errors"

var (
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInactiveSession   = errors.New("round is not active")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrInvalidTransition = errors.New("action is not allowed in the current phase")
	ErrUnknownMode       = errors.New("unknown game mode")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrSessionNotFound   = errors.New("session not found")
	ErrComputerMove      = errors.New("computer move rejected")
)

// IsIgnorable reports whether err is a rejected input that callers drop without surfacing.
// A rejected computer move is never ignorable, even though it wraps the engine's reason.
func IsIgnorable(err error) bool {
	if errors.Is(err, ErrComputerMove) {
		return false
	}

	return errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrInvalidCell) ||
		errors.Is(err, ErrInactiveSession) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrInvalidTransition)
}
