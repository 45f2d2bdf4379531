package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/desertthunder/yamusic/internal/shared"
	"github.com/desertthunder/yamusic/internal/ui"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			os.Stderr.WriteString(ui.Error("%v", err) + "\n" + ui.Help("run `yamusic auth login` first") + "\n")
			os.Exit(1)
		case errors.Is(err, shared.ErrStaleRevision):
			os.Stderr.WriteString(ui.Error("%v", err) + "\n" + ui.Help("the playlist changed remotely; run the command again") + "\n")
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
