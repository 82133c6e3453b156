package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/api"
	"github.com/stocktracker/stocktracker-cli/internal/config"
)

// registerOptions holds dependencies for the register command.
type registerOptions struct {
	configPath     string
	passwordReader passwordReader
	prompt         prompter
}

// newRegisterCmd creates the register command with the given options.
func newRegisterCmd(opts registerOptions) *cobra.Command {
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new stocktracker account",
		Long: `Create a new account on the stocktracker server.

Registration does not log you in; run 'stocktracker login' afterwards.

Example:
  stocktracker register --name "Jane Doe" --email jane@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, opts, name, email)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (prompted if omitted)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.SilenceUsage = true

	return cmd
}

func runRegister(cmd *cobra.Command, opts registerOptions, name, email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	if name == "" {
		if name, err = opts.prompt.ReadLine("Name: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = opts.prompt.ReadLine("Email: "); err != nil {
			return err
		}
		if email == "" {
			return fmt.Errorf("email is required")
		}
	}

	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("register requires an interactive terminal")
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
	user, err := client.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Run 'stocktracker login' to sign in.\n", user.Email)
	return nil
}

func init() {
	registerCmd := newRegisterCmd(registerOptions{
		configPath:     config.ConfigPath(),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(registerCmd)
}
