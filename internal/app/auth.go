package app

import (
	"context"
	"strings"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/api"
	"github.com/sayah-app/sayah-go/internal/logger"
	"github.com/sayah-app/sayah-go/internal/secrets"
)

// CredentialFlags are the command line sources for a username and password.
type CredentialFlags struct {
	Username     string
	Password     string // may reference ${ENV_VAR}
	PasswordFile string // takes precedence over Password
}

// passwordPrompt reads a password without echo; replaced in tests.
var passwordPrompt = alert.ReadPassword

// Credentials resolves flags into credentials, prompting for whatever is missing.
func (a *App) Credentials(ctx context.Context, flags CredentialFlags) (api.Credentials, error) {
	username := strings.TrimSpace(flags.Username)
	if username == "" {
		var err error
		if username, err = a.Dialog.Prompt(ctx, "Username"); err != nil {
			return api.Credentials{}, err
		}
	}

	password, err := secrets.Resolve(flags.PasswordFile, flags.Password)
	if err != nil {
		return api.Credentials{}, err
	}
	if password == "" {
		if password, err = passwordPrompt("Password: "); err != nil {
			return api.Credentials{}, err
		}
	}

	return api.Credentials{Username: username, Password: password}, nil
}

// Login authenticates with the server and persists the session identifier.
// Navigation moves to Main only after the identifier is stored.
func (a *App) Login(ctx context.Context, creds api.Credentials) error {
	result, err := a.API.Login(ctx, creds)
	if err != nil {
		return err
	}
	if err := a.Gate.CompleteLogin(ctx, result.SessionID); err != nil {
		return err
	}
	logger.Global().Module("cli").Info("logged in")
	return nil
}

// Logout forgets the session identifier and any cached server data.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Gate.Logout(ctx); err != nil {
		return err
	}
	a.API.InvalidateCache()
	return nil
}
