package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/keyring"
)

// logoutOptions holds dependencies for the logout command.
type logoutOptions struct {
	secrets keyring.Store
}

// newLogoutCmd creates the logout command with the given options.
func newLogoutCmd(opts logoutOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, opts)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func runLogout(cmd *cobra.Command, opts logoutOptions) error {
	// Logout never fails from the user's perspective; a missing token is
	// already the logged-out state.
	if err := opts.secrets.Delete(keyring.ServiceName, keyring.KeyAuthToken); err != nil {
		logger := newLogger()
		logger.Warn().Err(err).Msg("failed to remove persisted token")
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func init() {
	logoutCmd := newLogoutCmd(logoutOptions{
		secrets: keyring.NewEnvStore(keyring.NewSystemStore()),
	})
	rootCmd.AddCommand(logoutCmd)
}
