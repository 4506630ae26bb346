package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-arcade/mocks/usecase"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

var (
	errRedisDown     = errors.New("redis down")
	errStorageIsFull = errors.New("storage is full")
)

func newTestManager(t *testing.T, bot botService) *GameManager {
	t.Helper()

	if bot == nil {
		bot = service.NewBotService(rand.New(rand.NewPCG(1, 2)))
	}

	return NewGameManager(slog.New(slog.DiscardHandler), repository.NewMemorySessionRepository(context.Background(), 0), bot)
}

// startSession - a stored session already in play with the given mode and difficulty.
func startSession(t *testing.T, manager *GameManager, mode entity.Mode, difficulty entity.Difficulty) *entity.Session {
	t.Helper()
	ctx := context.Background()

	session, err := manager.NewSession(ctx)
	require.NoError(t, err)

	session, err = manager.OnModeSelected(ctx, session.ID, mode)
	require.NoError(t, err)

	if mode == entity.ModeVsComputer {
		session, err = manager.OnDifficultySelected(ctx, session.ID, difficulty)
		require.NoError(t, err)
	}

	return session
}

func playMoves(t *testing.T, manager *GameManager, id string, cells ...int) *MoveResult {
	t.Helper()

	var result *MoveResult
	for _, cell := range cells {
		var err error
		result, err = manager.OnHumanMove(context.Background(), id, cell)
		require.NoError(t, err, "cell %d", cell)
	}

	return result
}

func TestGameManager_NewSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a session waiting for a mode", func(t *testing.T) {
		// Given: a game manager
		manager := newTestManager(t, nil)

		// When: a new session is requested
		session, err := manager.NewSession(ctx)

		// Then: it is stored with an empty board and no mode
		require.NoError(t, err)
		_, err = uuid.Parse(session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.PhaseModeSelect, session.Phase)
		assert.Equal(t, entity.ModeUnset, session.Mode)
		assert.Equal(t, entity.Board{}, session.Game.Board)
		assert.Equal(t, "Choose game mode", StatusText(session))

		stored, err := manager.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, stored.ID)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		// Given: a repository that cannot store
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := NewGameManager(slog.New(slog.DiscardHandler), mockSessionRepo, mockBot)

		mockSessionRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Session")).
			Return(errStorageIsFull).
			Once()

		// When: a new session is requested
		session, err := manager.NewSession(ctx)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errStorageIsFull)
		assert.Nil(t, session)
	})
}

func TestGameManager_ModeAndDifficulty(t *testing.T) {
	ctx := context.Background()

	t.Run("PlayerVsPlayer starts the round", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		session, err = manager.OnModeSelected(ctx, session.ID, entity.ModePlayerVsPlayer)

		require.NoError(t, err)
		assert.Equal(t, entity.PhasePlaying, session.Phase)
		assert.Equal(t, "Player X's turn", StatusText(session))
	})

	t.Run("PlayerVsComputer asks for a difficulty", func(t *testing.T) {
		// Given: a new session
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		// When: the computer mode is chosen
		session, err = manager.OnModeSelected(ctx, session.ID, entity.ModeVsComputer)

		// Then: a difficulty is needed before play
		require.NoError(t, err)
		assert.Equal(t, entity.PhaseDifficultySelect, session.Phase)
		assert.Equal(t, "Select difficulty", StatusText(session))

		// When: a difficulty is chosen
		session, err = manager.OnDifficultySelected(ctx, session.ID, entity.DifficultyHard)

		// Then: the round starts with the human to move
		require.NoError(t, err)
		assert.Equal(t, entity.PhasePlaying, session.Phase)
		assert.Equal(t, entity.DifficultyHard, session.Difficulty)
		assert.Equal(t, "Player vs Computer (hard) - Your turn", StatusText(session))
	})

	t.Run("Rejects unknown values", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		unchanged, err := manager.OnModeSelected(ctx, session.ID, entity.Mode("online"))
		require.ErrorIs(t, err, apperror.ErrUnknownMode)
		assert.Equal(t, entity.PhaseModeSelect, unchanged.Phase)

		_, err = manager.OnModeSelected(ctx, session.ID, entity.ModeVsComputer)
		require.NoError(t, err)

		unchanged, err = manager.OnDifficultySelected(ctx, session.ID, entity.Difficulty("nightmare"))
		require.ErrorIs(t, err, apperror.ErrUnknownDifficulty)
		assert.Equal(t, entity.PhaseDifficultySelect, unchanged.Phase)
	})

	t.Run("Rejects selections outside their phase", func(t *testing.T) {
		// Given: a session already playing
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)

		// When: a mode or a difficulty is selected again
		_, modeErr := manager.OnModeSelected(ctx, session.ID, entity.ModeVsComputer)
		unchanged, difficultyErr := manager.OnDifficultySelected(ctx, session.ID, entity.DifficultyEasy)

		// Then: both are invalid transitions and nothing changed
		require.ErrorIs(t, modeErr, apperror.ErrInvalidTransition)
		require.ErrorIs(t, difficultyErr, apperror.ErrInvalidTransition)
		assert.Equal(t, entity.ModePlayerVsPlayer, unchanged.Mode)
		assert.Equal(t, entity.PhasePlaying, unchanged.Phase)
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newTestManager(t, nil)

		_, err := manager.OnModeSelected(ctx, "missing", entity.ModePlayerVsPlayer)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestGameManager_OnHumanMove_PlayerVsPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("X wins the top row", func(t *testing.T) {
		// Given: a two player session
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)

		// When: X@0, O@4, X@1, O@5, X@2
		result := playMoves(t, manager, session.ID, 0, 4, 1, 5, 2)

		// Then: X wins on {0,1,2} and scores a point
		assert.Equal(t, tictactoe.OutcomeWin, result.Outcome)
		assert.Equal(t, service.NoMove, result.ComputerCell)
		assert.Equal(t, []int{0, 1, 2}, result.Session.Game.WinningLine)
		assert.Equal(t, entity.Scores{X: 1}, result.Session.Scores)
		assert.Equal(t, entity.PhaseRoundOver, result.Session.Phase)
		assert.False(t, result.Session.Game.Active)
		assert.Equal(t, "Player X wins!", StatusText(result.Session))
	})

	t.Run("Draw leaves the scores alone", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)

		result := playMoves(t, manager, session.ID, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		assert.Equal(t, tictactoe.OutcomeDraw, result.Outcome)
		assert.Equal(t, entity.Scores{}, result.Session.Scores)
		assert.Equal(t, entity.PhaseRoundOver, result.Session.Phase)
		assert.Equal(t, "It's a draw!", StatusText(result.Session))
	})

	t.Run("Ignores an occupied cell", func(t *testing.T) {
		// Given: X holds cell 4
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)
		before := playMoves(t, manager, session.ID, 4).Session

		// When: O clicks cell 4
		result, err := manager.OnHumanMove(ctx, session.ID, 4)

		// Then: the move is ignored and the session is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.True(t, apperror.IsIgnorable(err))
		assert.Equal(t, before.Game, result.Session.Game)
		assert.Equal(t, o, result.Session.Game.CurrentPlayer)
	})

	t.Run("Ignores moves after the round is over", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)
		playMoves(t, manager, session.ID, 0, 4, 1, 5, 2)

		result, err := manager.OnHumanMove(ctx, session.ID, 8)

		require.True(t, apperror.IsIgnorable(err))
		assert.Equal(t, e, result.Session.Game.Board[8])
		assert.Equal(t, 1, result.Session.Scores.X)
	})

	t.Run("Ignores moves before a mode is chosen", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		result, err := manager.OnHumanMove(ctx, session.ID, 0)

		require.ErrorIs(t, err, apperror.ErrInvalidTransition)
		assert.Equal(t, entity.Board{}, result.Session.Game.Board)
	})

	t.Run("Ignores cells outside the board", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)

		_, err := manager.OnHumanMove(ctx, session.ID, 9)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}

func TestGameManager_OnHumanMove_PlayerVsComputer(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer answers in the same event", func(t *testing.T) {
		// Given: a computer session and a bot that answers 4
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newTestManager(t, mockBot)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyMedium)

		mockBot.EXPECT().
			ChooseMove(entity.Board{x, e, e, e, e, e, e, e, e}, entity.DifficultyMedium, o, x).
			Return(4).
			Once()

		// When: the human plays 0
		result, err := manager.OnHumanMove(ctx, session.ID, 0)

		// Then: both marks are on the board and the human is to move
		require.NoError(t, err)
		assert.Equal(t, 0, result.HumanCell)
		assert.Equal(t, 4, result.ComputerCell)
		assert.Equal(t, tictactoe.OutcomeContinue, result.Outcome)
		assert.Equal(t, entity.Board{x, e, e, e, o, e, e, e, e}, result.Session.Game.Board)
		assert.Equal(t, x, result.Session.Game.CurrentPlayer)
	})

	t.Run("Computer wins the middle row", func(t *testing.T) {
		// Given: a bot that plays 3, 4 and 5
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newTestManager(t, mockBot)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyEasy)

		for _, cell := range []int{3, 4, 5} {
			mockBot.EXPECT().
				ChooseMove(mock.Anything, entity.DifficultyEasy, o, x).
				Return(cell).
				Once()
		}

		// When: the human plays 0, 1 and 8
		result := playMoves(t, manager, session.ID, 0, 1, 8)

		// Then: O wins and the computer scores
		assert.Equal(t, tictactoe.OutcomeWin, result.Outcome)
		assert.Equal(t, 5, result.ComputerCell)
		assert.Equal(t, []int{3, 4, 5}, result.Session.Game.WinningLine)
		assert.Equal(t, entity.Scores{O: 1}, result.Session.Scores)
		assert.Equal(t, "Computer wins!", StatusText(result.Session))
	})

	t.Run("Human win stops the computer", func(t *testing.T) {
		// Given: a bot that plays 3 and 4
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newTestManager(t, mockBot)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyEasy)

		mockBot.EXPECT().ChooseMove(mock.Anything, entity.DifficultyEasy, o, x).Return(3).Once()
		mockBot.EXPECT().ChooseMove(mock.Anything, entity.DifficultyEasy, o, x).Return(4).Once()

		// When: the human completes the top row
		result := playMoves(t, manager, session.ID, 0, 1, 2)

		// Then: the bot is not asked a third time
		assert.Equal(t, tictactoe.OutcomeWin, result.Outcome)
		assert.Equal(t, service.NoMove, result.ComputerCell)
		assert.Equal(t, "You win!", StatusText(result.Session))
	})

	t.Run("NoMove from the bot leaves the computer's turn open", func(t *testing.T) {
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newTestManager(t, mockBot)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyHard)

		mockBot.EXPECT().ChooseMove(mock.Anything, entity.DifficultyHard, o, x).Return(service.NoMove).Once()

		result := playMoves(t, manager, session.ID, 0)

		assert.Equal(t, service.NoMove, result.ComputerCell)
		assert.Equal(t, o, result.Session.Game.CurrentPlayer)
		assert.Equal(t, "Player vs Computer (hard) - Computer's turn", StatusText(result.Session))

		// Then: the human cannot move for the computer
		_, err := manager.OnHumanMove(ctx, session.ID, 1)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("A rejected computer move is not stored", func(t *testing.T) {
		// Given: a bot that picks the human's cell
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newTestManager(t, mockBot)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyEasy)

		mockBot.EXPECT().ChooseMove(mock.Anything, entity.DifficultyEasy, o, x).Return(0).Once()

		// When: the human plays 0
		result, err := manager.OnHumanMove(ctx, session.ID, 0)

		// Then: the event fails with the engine's reason kept, and the board is untouched
		require.ErrorIs(t, err, apperror.ErrComputerMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.False(t, apperror.IsIgnorable(err))
		assert.Nil(t, result.Session)

		stored, err := manager.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, stored.Game.Board)
	})

	t.Run("Hard computer blocks and never breaks the board", func(t *testing.T) {
		// Given: a real hard bot
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyHard)

		// When: the human opens in a corner
		result := playMoves(t, manager, session.ID, 0)

		// Then: the computer takes the center
		assert.Equal(t, 4, result.ComputerCell)

		// When: the human threatens the top row
		result = playMoves(t, manager, session.ID, 1)

		// Then: the computer blocks at 2
		assert.Equal(t, 2, result.ComputerCell)

		diff := result.Session.Game.Board.Count(x) - result.Session.Game.Board.Count(o)
		assert.Equal(t, 0, diff)
	})
}

func TestGameManager_RoundControls(t *testing.T) {
	ctx := context.Background()

	t.Run("Restart keeps mode, difficulty and scores", func(t *testing.T) {
		// Given: a finished round X won
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)
		playMoves(t, manager, session.ID, 0, 4, 1, 5, 2)

		// When: the round is restarted
		session, err := manager.OnRestart(ctx, session.ID)

		// Then: a fresh round starts, X to move
		require.NoError(t, err)
		assert.Equal(t, entity.PhasePlaying, session.Phase)
		assert.Equal(t, entity.ModePlayerVsPlayer, session.Mode)
		assert.Equal(t, *entity.NewGame(), session.Game)
		assert.Equal(t, entity.Scores{X: 1}, session.Scores)
	})

	t.Run("Restart during selection keeps the phase", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		session, err = manager.OnRestart(ctx, session.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.PhaseModeSelect, session.Phase)
	})

	t.Run("ChangeMode clears mode and difficulty", func(t *testing.T) {
		// Given: a computer session with a move played
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newTestManager(t, mockBot)
		session := startSession(t, manager, entity.ModeVsComputer, entity.DifficultyHard)

		mockBot.EXPECT().ChooseMove(mock.Anything, entity.DifficultyHard, o, x).Return(4).Once()
		playMoves(t, manager, session.ID, 0)

		// When: the mode is changed
		session, err := manager.OnChangeMode(ctx, session.ID)

		// Then: the session is back at mode selection with a fresh board
		require.NoError(t, err)
		assert.Equal(t, entity.PhaseModeSelect, session.Phase)
		assert.Equal(t, entity.ModeUnset, session.Mode)
		assert.Equal(t, entity.DifficultyUnset, session.Difficulty)
		assert.Equal(t, *entity.NewGame(), session.Game)

		// Then: a mode can be chosen again
		session, err = manager.OnModeSelected(ctx, session.ID, entity.ModePlayerVsPlayer)
		require.NoError(t, err)
		assert.Equal(t, entity.PhasePlaying, session.Phase)
	})

	t.Run("ResetScore zeroes scores and restarts the round", func(t *testing.T) {
		// Given: X has won once and a new round is under way
		manager := newTestManager(t, nil)
		session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)
		playMoves(t, manager, session.ID, 0, 4, 1, 5, 2)
		_, err := manager.OnRestart(ctx, session.ID)
		require.NoError(t, err)
		playMoves(t, manager, session.ID, 8)

		// When: the score is reset
		session, err = manager.OnResetScore(ctx, session.ID)

		// Then: scores are zero, the board is empty and play continues
		require.NoError(t, err)
		assert.Equal(t, entity.Scores{}, session.Scores)
		assert.Equal(t, *entity.NewGame(), session.Game)
		assert.Equal(t, entity.PhasePlaying, session.Phase)
	})

	t.Run("ToggleSound flips the preference", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		session, err = manager.OnToggleSound(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, session.SoundEnabled)

		session, err = manager.OnToggleSound(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, session.SoundEnabled)
	})
}

func TestGameManager_EndSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes the session", func(t *testing.T) {
		manager := newTestManager(t, nil)
		session, err := manager.NewSession(ctx)
		require.NoError(t, err)

		require.NoError(t, manager.EndSession(ctx, session.ID))

		_, err = manager.GetSession(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Zero(t, manager.locks.size())
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newTestManager(t, nil)

		err := manager.EndSession(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestGameManager_StorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Load failure propagates", func(t *testing.T) {
		// Given: a repository that is down
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(slog.New(slog.DiscardHandler), mockSessionRepo, mockedUseCase.NewMockbotService(t))

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "session123").
			Return((*entity.Session)(nil), errRedisDown).
			Once()

		// When: a move is made
		result, err := manager.OnHumanMove(ctx, "session123", 0)

		// Then: the error is returned without a session
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, result.Session)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		// Given: a repository that loads but cannot store
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(slog.New(slog.DiscardHandler), mockSessionRepo, mockedUseCase.NewMockbotService(t))

		session := entity.NewSession("session123", testNow)
		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "session123").
			Return(session, nil).
			Once()
		mockSessionRepo.EXPECT().
			CreateOrUpdate(mock.Anything, session).
			Return(errStorageIsFull).
			Once()

		// When: the mode is selected
		updated, err := manager.OnModeSelected(ctx, "session123", entity.ModePlayerVsPlayer)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errStorageIsFull)
		assert.Nil(t, updated)
	})

	t.Run("Ignored events are not stored", func(t *testing.T) {
		// Given: a repository expecting only a load
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(slog.New(slog.DiscardHandler), mockSessionRepo, mockedUseCase.NewMockbotService(t))

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "session123").
			Return(entity.NewSession("session123", testNow), nil).
			Once()

		// When: a move is made before a mode is chosen
		_, err := manager.OnHumanMove(ctx, "session123", 0)

		// Then: CreateOrUpdate is never called
		require.ErrorIs(t, err, apperror.ErrInvalidTransition)
	})
}

func TestGameManager_SerializesEventsPerSession(t *testing.T) {
	// Given: a two player session
	ctx := context.Background()
	manager := newTestManager(t, nil)
	session := startSession(t, manager, entity.ModePlayerVsPlayer, entity.DifficultyUnset)

	// When: every cell is clicked at once
	var wg sync.WaitGroup
	for cell := range entity.BoardSize {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.OnHumanMove(ctx, session.ID, cell)
			if err != nil {
				assert.True(t, apperror.IsIgnorable(err), "unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// Then: the round ran to its end and the marks stay balanced
	stored, err := manager.GetSession(ctx, session.ID)
	require.NoError(t, err)

	diff := stored.Game.Board.Count(x) - stored.Game.Board.Count(o)
	assert.Contains(t, []int{0, 1}, diff)
	assert.False(t, stored.Game.Active)
	assert.Zero(t, manager.locks.size())
}

func TestGameManager_SessionsShareTheComputerInParallel(t *testing.T) {
	// Given: many computer sessions on one manager and one seeded bot
	ctx := context.Background()
	manager := newTestManager(t, nil)

	sessions := make([]*entity.Session, 16)
	for i := range sessions {
		sessions[i] = startSession(t, manager, entity.ModeVsComputer, entity.DifficultyEasy)
	}

	// When: every session plays and restarts at the same time
	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range 20 {
				result, err := manager.OnHumanMove(ctx, session.ID, 0)
				if !assert.NoError(t, err) {
					return
				}

				// Then: the computer answered on another cell
				assert.NotEqual(t, 0, result.ComputerCell)
				assert.True(t, result.ComputerCell >= 1 && result.ComputerCell < entity.BoardSize)

				_, err = manager.OnRestart(ctx, session.ID)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, manager.locks.size())
}
