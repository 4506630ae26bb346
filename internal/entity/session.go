package entity

import "time"

type Mode string

const (
	ModeUnset          = Mode("")
	ModePlayerVsPlayer = Mode("pvp")
	ModeVsComputer     = Mode("pvc")
)

func (that Mode) IsValid() bool {
	return that == ModePlayerVsPlayer || that == ModeVsComputer
}

type Difficulty string

const (
	DifficultyUnset  = Difficulty("")
	DifficultyEasy   = Difficulty("easy")
	DifficultyMedium = Difficulty("medium")
	DifficultyHard   = Difficulty("hard")
)

func (that Difficulty) IsValid() bool {
	switch that {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Phase - where the session is in the mode-select -> play -> round-over cycle.
type Phase string

const (
	PhaseModeSelect       = Phase("mode-select")
	PhaseDifficultySelect = Phase("difficulty-select")
	PhasePlaying          = Phase("playing")
	PhaseRoundOver        = Phase("round-over")
)

type Scores struct {
	X int `json:"x"`
	O int `json:"o"`
}

func (that *Scores) Increment(mark Mark) {
	switch mark {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

func (that *Scores) Reset() {
	that.X = 0
	that.O = 0
}

// Session - one visit: the current round plus mode, difficulty and scores across rounds.
type Session struct {
	ID           string     `json:"id"`
	Game         Game       `json:"game"`
	Mode         Mode       `json:"mode,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	Phase        Phase      `json:"phase"`
	Scores       Scores     `json:"scores"`
	PlayerMark   Mark       `json:"player_mark"`
	ComputerMark Mark       `json:"computer_mark"`
	SoundEnabled bool       `json:"sound_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Game:         *NewGame(),
		Phase:        PhaseModeSelect,
		PlayerMark:   PlayerX,
		ComputerMark: PlayerO,
		SoundEnabled: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (that *Session) IsVsComputer() bool {
	return that.Mode == ModeVsComputer
}

func (that *Session) IsPlaying() bool {
	return that.Phase == PhasePlaying
}

// IsComputerTurn reports whether the computer has to move next in the current round.
func (that *Session) IsComputerTurn() bool {
	return that.IsVsComputer() && that.IsPlaying() && that.Game.Active && that.Game.CurrentPlayer == that.ComputerMark
}
