package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-arcade/transport/view"
)

const (
	actionConnect      = "connect"
	actionMode         = "game:mode"
	actionDifficulty   = "game:difficulty"
	actionTurn         = "game:turn"
	actionRestart      = "game:restart"
	actionChangeMode   = "game:change-mode"
	actionResetScore   = "game:reset-score"
	actionToggleSound  = "game:sound"
	actionUnknownError = "error"
)

// Message - a client request: an action name and its payload.
type Message struct {
	Action  string          `json:"action" validate:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response mirrors the request action.
type Response struct {
	Action  string        `json:"action"`
	Session *view.Session `json:"session,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type connectPayload struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
}

type modePayload struct {
	Mode string `json:"mode" validate:"required,oneof=pvp pvc"`
}

type difficultyPayload struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

type turnPayload struct {
	Cell *int `json:"cell" validate:"required"`
}
