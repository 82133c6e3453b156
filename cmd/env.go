package cmd

import (
	"context"
	"fmt"

	"github.com/stocktracker/stocktracker-cli/internal/api"
	"github.com/stocktracker/stocktracker-cli/internal/config"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
	"github.com/stocktracker/stocktracker-cli/internal/session"
)

// appEnv bundles the composition root shared by authenticated commands:
// config, API client and the restored session store.
type appEnv struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Store
}

// newAppEnv loads the config and constructs the client and session store.
// Session restore happens here: a persisted token is read once and the
// user profile fetched; an invalid token silently deauthenticates.
func newAppEnv(ctx context.Context, configPath string, secrets keyring.Store) (*appEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIBaseURL, nil)
	sess := session.New(ctx, client, secrets, newLogger())

	return &appEnv{
		cfg:     cfg,
		client:  client,
		session: sess,
	}, nil
}

// requireLogin fails when no session survived the restore.
func (e *appEnv) requireLogin() error {
	if !e.session.IsLoggedIn() {
		return fmt.Errorf("not logged in (run 'stocktracker login')")
	}
	return nil
}
