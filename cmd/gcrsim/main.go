// Command gcrsim runs the Global Carbon Reward agent-based economic
// simulation.
package main

import (
	"log/slog"
	"os"

	"github.com/gcrsim/gcrsim/internal/cli"
)

var version = "dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cli.Execute(version)
}
