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
	"github.com/stocktracker/stocktracker-cli/internal/portfolio"
)

// portfolioOptions holds dependencies for the portfolio commands.
type portfolioOptions struct {
	configPath string
	secrets    keyring.Store
}

// newPortfolioCmd creates the portfolio command group with the given options.
func newPortfolioCmd(opts portfolioOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Manage portfolios",
		Long: `List, inspect, create and delete portfolios.

Examples:
  stocktracker portfolio list
  stocktracker portfolio create "Tech" -d "Growth stocks"
  stocktracker portfolio show PORTFOLIO_ID
  stocktracker portfolio delete PORTFOLIO_ID`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolioList(cmd, opts)
		},
	}

	cmd.SilenceUsage = true

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your portfolios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolioList(cmd, opts)
		},
	}
	listCmd.SilenceUsage = true

	var description string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolioCreate(cmd, opts, args[0], description)
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Portfolio description")
	createCmd.SilenceUsage = true

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolioDelete(cmd, opts, args[0])
		},
	}
	deleteCmd.SilenceUsage = true

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a portfolio with its transactions and holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolioShow(cmd, opts, args[0])
		},
	}
	showCmd.SilenceUsage = true

	cmd.AddCommand(listCmd, createCmd, deleteCmd, showCmd)

	return cmd
}

// newPortfolioStore builds the app environment and a portfolio store on
// top of it, verifying the session first.
func newPortfolioStore(ctx context.Context, opts portfolioOptions) (*portfolio.Store, error) {
	env, err := newAppEnv(ctx, opts.configPath, opts.secrets)
	if err != nil {
		return nil, err
	}
	if err := env.requireLogin(); err != nil {
		return nil, err
	}
	return portfolio.New(env.client, newLogger()), nil
}

func runPortfolioList(cmd *cobra.Command, opts portfolioOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := newPortfolioStore(ctx, opts)
	if err != nil {
		return err
	}

	store.FetchPortfolios(ctx)
	if msg := store.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	portfolios := store.Portfolios()
	if len(portfolios) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No portfolios")
		return nil
	}

	formatter := output.New(cmd.OutOrStdout(), GetJSONMode())
	headers := []string{"ID", "Name", "Description", "Created"}
	rows := make([][]string, 0, len(portfolios))
	for _, p := range portfolios {
		rows = append(rows, []string{p.ID, p.Name, p.Description, p.CreatedAt})
	}

	return formatter.Table(headers, rows)
}

func runPortfolioCreate(cmd *cobra.Command, opts portfolioOptions, name, description string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := newPortfolioStore(ctx, opts)
	if err != nil {
		return err
	}

	store.CreatePortfolio(ctx, name, description)
	if msg := store.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	portfolios := store.Portfolios()
	created := portfolios[len(portfolios)-1]
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created portfolio %q (%s)\n", created.Name, created.ID)
	return nil
}

func runPortfolioDelete(cmd *cobra.Command, opts portfolioOptions, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := newPortfolioStore(ctx, opts)
	if err != nil {
		return err
	}

	store.DeletePortfolio(ctx, id)
	if msg := store.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted portfolio %s\n", id)
	return nil
}

func runPortfolioShow(cmd *cobra.Command, opts portfolioOptions, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := newPortfolioStore(ctx, opts)
	if err != nil {
		return err
	}

	store.FetchPortfolio(ctx, id)
	if msg := store.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	p := store.Current()
	if p == nil {
		return fmt.Errorf("portfolio %s not found", id)
	}

	formatter := output.New(cmd.OutOrStdout(), GetJSONMode())
	if GetJSONMode() {
		return formatter.Print(p)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n\n", p.Name, p.Description)

	if len(p.Transactions) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No transactions")
		return nil
	}

	headers := []string{"ID", "Symbol", "Type", "Qty", "Price", "Date"}
	rows := make([][]string, 0, len(p.Transactions))
	for _, tx := range p.Transactions {
		rows = append(rows, []string{
			tx.ID,
			tx.Symbol(),
			string(tx.TransactionType),
			formatQuantity(tx.Quantity),
			formatMoney(tx.PricePerShare),
			tx.TransactionDate,
		})
	}
	if err := formatter.Table(headers, rows); err != nil {
		return err
	}

	summary := portfolio.Summarize(p)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nHoldings:")
	holdingHeaders := []string{"Symbol", "Shares", "Avg Price", "Cost Basis", "Realized"}
	holdingRows := make([][]string, 0, len(summary.Holdings))
	for _, h := range summary.Holdings {
		holdingRows = append(holdingRows, []string{
			h.Symbol,
			formatQuantity(h.Shares),
			formatMoney(h.AvgBuyPrice),
			formatMoney(h.CostBasis),
			formatMoney(h.Realized),
		})
	}
	if err := formatter.Table(holdingHeaders, holdingRows); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nTotal invested: %s  Total realized: %s\n",
		formatMoney(summary.TotalInvested), formatMoney(summary.TotalRealized))
	return nil
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func init() {
	portfolioCmd := newPortfolioCmd(portfolioOptions{
		configPath: config.ConfigPath(),
		secrets:    keyring.NewEnvStore(keyring.NewSystemStore()),
	})
	rootCmd.AddCommand(portfolioCmd)
}
