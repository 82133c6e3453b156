package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/config"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
	"github.com/stocktracker/stocktracker-cli/internal/output"
)

// stockOptions holds dependencies for the stock commands.
type stockOptions struct {
	configPath string
	secrets    keyring.Store
}

// newStockCmd creates the stock command group with the given options.
func newStockCmd(opts stockOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Look up stocks",
	}

	cmd.SilenceUsage = true

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search stocks by symbol or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStockSearch(cmd, opts, args[0])
		},
	}
	searchCmd.SilenceUsage = true

	cmd.AddCommand(searchCmd)

	return cmd
}

func runStockSearch(cmd *cobra.Command, opts stockOptions, query string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env, err := newAppEnv(ctx, opts.configPath, opts.secrets)
	if err != nil {
		return err
	}
	if err := env.requireLogin(); err != nil {
		return err
	}

	result, err := env.client.SearchStocks(ctx, query)
	if err != nil {
		return err
	}

	if result.Count == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No matches")
		return nil
	}

	formatter := output.New(cmd.OutOrStdout(), GetJSONMode())
	headers := []string{"Symbol", "Description", "Type"}
	rows := make([][]string, 0, len(result.Result))
	for _, item := range result.Result {
		symbol := item.DisplaySymbol
		if symbol == "" {
			symbol = item.Symbol
		}
		rows = append(rows, []string{symbol, item.Description, item.Type})
	}

	if err := formatter.Table(headers, rows); err != nil {
		return err
	}
	if !GetJSONMode() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(result.Count)+" match(es)")
	}
	return nil
}

func init() {
	stockCmd := newStockCmd(stockOptions{
		configPath: config.ConfigPath(),
		secrets:    keyring.NewEnvStore(keyring.NewSystemStore()),
	})
	rootCmd.AddCommand(stockCmd)
}
