package terminal

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

func newTestPlayer(input string) (*Player, *bytes.Buffer, *[]time.Duration) {
	logger := slog.New(slog.DiscardHandler)
	manager := usecase.NewGameManager(
		logger,
		repository.NewMemorySessionRepository(context.Background(), 0),
		service.NewBotService(rand.New(rand.NewPCG(1, 2))),
	)

	out := &bytes.Buffer{}
	player := New(logger, manager, strings.NewReader(input), out, 500*time.Millisecond)

	var slept []time.Duration
	player.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}

	return player, out, &slept
}

func TestPlayer_PlayerVsPlayer(t *testing.T) {
	// Given: pvp, then X@1, O@5, X@2, O@6, X@3 in terminal numbering
	player, out, slept := newTestPlayer("1\n1\n5\n2\n6\n3\nq\n")

	// When: the game is played
	err := player.Run(context.Background())

	// Then: X wins with the top row bracketed and no pause was taken
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Choose game mode")
	assert.Contains(t, output, "Player X wins!    X: 1  O: 0")
	assert.Contains(t, output, "[X]|[X]|[X]")
	assert.Contains(t, output, "Bye!")
	assert.Empty(t, *slept)
}

func TestPlayer_PlayerVsComputer(t *testing.T) {
	// Given: pvc on hard, the human opens in the top-left corner
	player, out, slept := newTestPlayer("2\n3\n1\nq\n")

	// When: the game is played
	err := player.Run(context.Background())

	// Then: the computer answers in the center after the configured delay
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Select difficulty")
	assert.Contains(t, output, "Computer plays 5")
	assert.Contains(t, output, "Player vs Computer (hard) - Your turn")
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, *slept)
}

func TestPlayer_Shortcuts(t *testing.T) {
	// Given: a won round followed by reset score and change mode
	player, out, _ := newTestPlayer("1\n1\n5\n2\n6\n3\ns\nm\n")

	// When: input runs out
	err := player.Run(context.Background())

	// Then: scores were zeroed and the mode menu came back
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Player X's turn    X: 0  O: 0")
	assert.Equal(t, 2, strings.Count(output, "Choose game mode"))
}

func TestPlayer_RejectsBadInput(t *testing.T) {
	player, out, _ := newTestPlayer("7\n1\nfoo\n1\n1\nq\n")

	err := player.Run(context.Background())

	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Pick 1 or 2.")
	assert.Contains(t, output, `Unknown command "foo".`)
	assert.Contains(t, output, "That move is not allowed.")
}
