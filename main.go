package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	app "github.com/rocketscienceinc/tictactoe-arcade/internal"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/config"
)

// main - is the entry point of the application. It parses the command line, loads the configuration and runs the chosen command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "tictactoe",
		Usage: "Tic-Tac-Toe against a friend or the computer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config; empty reads the environment only",
				Value:   "./config.yml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and WebSocket servers",
				Action: serve,
			},
			{
				Name:   "play",
				Usage:  "play in the terminal",
				Action: play,
			},
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	conf := config.MustLoad(cmd.String("config"))

	return app.RunApp(ctx, initLogger(conf, os.Stdout), conf)
}

// play - logs go to stderr so they do not mix with the board.
func play(ctx context.Context, cmd *cli.Command) error {
	conf := config.MustLoad(cmd.String("config"))

	return app.RunTerminal(ctx, initLogger(conf, os.Stderr), conf, os.Stdin, os.Stdout)
}

// initialize logger.
func initLogger(conf *config.Config, out *os.File) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
