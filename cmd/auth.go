package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/yamusic/internal/shared"
	"github.com/desertthunder/yamusic/internal/ui"
)

// credentialer is implemented by services that can hand out their token for persisting.
type credentialer interface {
	Credentials() shared.CredentialsConfig
}

// AuthLogin exchanges login and password for an access token and saves it to the configuration file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	login := cmd.String("login")
	password := cmd.String("password")

	r.logger.Info("authenticating", "login", login)
	if err := r.service.Authenticate(ctx, login, password); err != nil {
		return err
	}

	r.writePlain("%s\n", ui.Success("Authenticated as %s (uid %d)", login, r.service.UserID()))

	if cmd.Bool("no-save") {
		return nil
	}

	src, ok := r.service.(credentialer)
	if !ok {
		r.logger.Warn("service does not expose credentials, token not saved")
		return nil
	}

	creds := src.Credentials()
	creds.Login = login
	if err := r.saveCredentials(creds); err != nil {
		return err
	}

	r.logger.Info("token saved", "path", r.configPath)
	return r.writePlain("Token saved to %s\n", r.configPath)
}

// AuthStatus reports whether a token is held, without contacting the service.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.service.IsAuthenticated() {
		r.writePlain("%s\n", ui.Error("Not authenticated"))
		return r.writePlain("%s\n", ui.Help("run `yamusic auth login` to obtain a token"))
	}

	login := ""
	if r.config != nil {
		login = r.config.Credentials.Login
	}
	if login == "" {
		login = "unknown login"
	}
	return r.writePlain("%s\n", ui.Success("Authenticated as %s (uid %d)", login, r.service.UserID()))
}

