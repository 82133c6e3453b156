package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/api"
	"github.com/stocktracker/stocktracker-cli/internal/config"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
	"github.com/stocktracker/stocktracker-cli/internal/session"
)

// loginOptions holds dependencies for the login command.
// This allows for dependency injection in tests.
type loginOptions struct {
	configPath     string
	secrets        keyring.Store
	passwordReader passwordReader
	prompt         prompter
}

// newLoginCmd creates the login command with the given options.
func newLoginCmd(opts loginOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your stocktracker account",
		Long: `Authenticate against the stocktracker server and persist the session.

You will be prompted for your password. The session token is stored in
the system keyring until you log out.

Example:
  stocktracker login --email me@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, email)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.SilenceUsage = true

	return cmd
}

func runLogin(cmd *cobra.Command, opts loginOptions, email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if email == "" {
		var err error
		email, err = opts.prompt.ReadLine("Email: ")
		if err != nil {
			return err
		}
		if email == "" {
			return fmt.Errorf("email is required")
		}
	}

	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("login requires an interactive terminal")
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	password, err := opts.passwordReader.ReadPassword()
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIBaseURL, nil)
	sess := session.New(ctx, client, opts.secrets, newLogger())

	if err := sess.Login(ctx, email, password); err != nil {
		return err
	}

	if user := sess.User(); user != nil && user.Name != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.Email)
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
	}

	return nil
}

func init() {
	loginCmd := newLoginCmd(loginOptions{
		configPath:     config.ConfigPath(),
		secrets:        keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(loginCmd)
}
