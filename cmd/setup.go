package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/yamusic/internal/shared"
	"github.com/desertthunder/yamusic/internal/ui"
)

// Setup creates the configuration file from the template and assigns a device identity.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	_, statErr := os.Stat(r.configPath)
	exists := statErr == nil
	if exists && !cmd.Bool("force") {
		r.logger.Info("config file already exists", "path", r.configPath)
		return r.writePlain("%s\n", ui.Warning("%s already exists (use --force to overwrite)", r.configPath))
	}

	config := shared.DefaultConfig()
	if !exists {
		r.logger.Info("creating config file from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		var err error
		if config, err = shared.LoadConfig(r.configPath); err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
	}

	config.Credentials.EnsureDevice()
	if err := shared.SaveConfig(r.configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.config = config

	r.writePlain("%s\n", ui.Success("Configuration written to %s", r.configPath))
	r.writePlain("Device: %s\n", config.Credentials.DeviceID)
	r.writePlainln("Next: yamusic auth login --login <login> --password <password>")
	return nil
}
