package entity

type Mark string

const (
	PlayerX = Mark("X")
	PlayerO = Mark("O")

	EmptyCell = Mark("")
)

const BoardSize = 9

var (
	// WinCombos - the 8 triples checked for a win: rows, columns, diagonals.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	CenterCell  = 4
	CornerCells = [4]int{0, 2, 6, 8}
	EdgeCells   = [4]int{1, 3, 5, 7}
)

// Opponent returns the other mark; EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

// Board - 9 cells in row-major order.
type Board [BoardSize]Mark

func (that *Board) IsValidCell(cell int) bool {
	return cell >= 0 && cell < len(that)
}

func (that *Board) IsEmpty(cell int) bool {
	return that.IsValidCell(cell) && that[cell] == EmptyCell
}

// WinningLine returns the first triple holding three equal non-empty marks.
func (that *Board) WinningLine() ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, true
		}
	}

	return [3]int{}, false
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// Count returns how many cells hold the given mark.
func (that *Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// Game - the state of a single round.
type Game struct {
	Board         Board `json:"board"`
	CurrentPlayer Mark  `json:"current_player"`
	Active        bool  `json:"active"`
	Winner        Mark  `json:"winner,omitempty"`
	Draw          bool  `json:"draw"`
	WinningLine   []int `json:"winning_line,omitempty"`
}

func NewGame() *Game {
	return &Game{
		CurrentPlayer: PlayerX,
		Active:        true,
	}
}
