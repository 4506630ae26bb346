package service

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
)

// NoMove is returned when the board has no empty cell.
const NoMove = -1

const mediumSmartChance = 0.5

// Random is the source of every random choice the bot makes. *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

type BotService interface {
	ChooseMove(board entity.Board, difficulty entity.Difficulty, computerMark, playerMark entity.Mark) int
}

// botService is shared by every session; mu guards random, which need not be safe for concurrent use.
type botService struct {
	mu     sync.Mutex
	random Random
}

func NewBotService(random Random) BotService {
	return &botService{
		random: random,
	}
}

func (that *botService) ChooseMove(board entity.Board, difficulty entity.Difficulty, computerMark, playerMark entity.Mark) int {
	switch difficulty {
	case entity.DifficultyHard:
		return that.bestMove(board, computerMark, playerMark)
	case entity.DifficultyMedium:
		if that.flipCoin() < mediumSmartChance {
			return that.bestMove(board, computerMark, playerMark)
		}
		return that.randomMove(board)
	default:
		return that.randomMove(board)
	}
}

func (that *botService) randomMove(board entity.Board) int {
	return that.pick(board.EmptyCells())
}

// bestMove - win, block, center, corner, edge; first rule that yields a cell wins.
func (that *botService) bestMove(board entity.Board, computerMark, playerMark entity.Mark) int {
	trial := &entity.Game{Board: board}

	if cell := findWinningCell(trial, computerMark); cell != NoMove {
		return cell
	}

	if cell := findWinningCell(trial, playerMark); cell != NoMove {
		return cell
	}

	if board.IsEmpty(entity.CenterCell) {
		return entity.CenterCell
	}

	if cell := that.pick(emptyOf(board, entity.CornerCells[:])); cell != NoMove {
		return cell
	}

	return that.pick(emptyOf(board, entity.EdgeCells[:]))
}

// findWinningCell - lowest empty cell where mark completes a triple.
// Every trial placement is undone before the next one.
func findWinningCell(trial *entity.Game, mark entity.Mark) int {
	for cell := range trial.Board {
		if trial.Board[cell] != entity.EmptyCell {
			continue
		}

		trial.Board[cell] = mark
		won := tictactoe.CheckWin(trial)
		trial.Board[cell] = entity.EmptyCell

		if won {
			return cell
		}
	}

	return NoMove
}

func emptyOf(board entity.Board, cells []int) []int {
	available := make([]int, 0, len(cells))
	for _, cell := range cells {
		if board.IsEmpty(cell) {
			available = append(available, cell)
		}
	}

	return available
}

func (that *botService) pick(cells []int) int {
	if len(cells) == 0 {
		return NoMove
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.random.IntN(len(cells))]
}

func (that *botService) flipCoin() float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.random.Float64()
}
