package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/config"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
	"github.com/stocktracker/stocktracker-cli/internal/output"
)

// accountOptions holds dependencies for the account command.
type accountOptions struct {
	configPath string
	secrets    keyring.Store
}

// newAccountCmd creates the account command with the given options.
func newAccountCmd(opts accountOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the current account",
		Long: `Show the profile of the currently logged-in user.

Example:
  stocktracker account`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(cmd, opts)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func runAccount(cmd *cobra.Command, opts accountOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env, err := newAppEnv(ctx, opts.configPath, opts.secrets)
	if err != nil {
		return err
	}
	if err := env.requireLogin(); err != nil {
		return err
	}

	user := env.session.User()
	if user == nil {
		return fmt.Errorf("failed to fetch user profile")
	}

	formatter := output.New(cmd.OutOrStdout(), GetJSONMode())
	return formatter.KeyValues([][2]string{
		{"ID", user.ID},
		{"Name", user.Name},
		{"Email", user.Email},
	})
}

func init() {
	accountCmd := newAccountCmd(accountOptions{
		configPath: config.ConfigPath(),
		secrets:    keyring.NewEnvStore(keyring.NewSystemStore()),
	})
	rootCmd.AddCommand(accountCmd)
}
