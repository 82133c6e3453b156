package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/api"
	"github.com/stocktracker/stocktracker-cli/internal/config"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
	"github.com/stocktracker/stocktracker-cli/internal/portfolio"
)

// txOptions holds dependencies for the transaction commands.
type txOptions struct {
	configPath string
	secrets    keyring.Store
}

// newTxCmd creates the tx command group with the given options.
func newTxCmd(opts txOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and delete transactions",
		Long: `Record buy/sell transactions against a portfolio, or delete them.

Quantities, prices and holdings are validated by the server; a rejected
transaction (e.g. selling more shares than held) reports the server's
message.

Examples:
  stocktracker tx add PORTFOLIO_ID --type buy --symbol AAPL --quantity 10 --price 189.50
  stocktracker tx delete PORTFOLIO_ID TRANSACTION_ID`,
	}

	cmd.SilenceUsage = true

	var (
		txType   string
		symbol   string
		quantity float64
		price    float64
		date     string
	)
	addCmd := &cobra.Command{
		Use:   "add PORTFOLIO_ID",
		Short: "Record a buy or sell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxAdd(cmd, opts, args[0], txType, symbol, quantity, price, date)
		},
	}
	addCmd.Flags().StringVarP(&txType, "type", "t", "buy", "Transaction type: buy or sell")
	addCmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Stock ticker symbol (required)")
	addCmd.Flags().Float64VarP(&quantity, "quantity", "q", 0, "Number of shares (required)")
	addCmd.Flags().Float64VarP(&price, "price", "p", 0, "Price per share (required)")
	addCmd.Flags().StringVarP(&date, "date", "d", "", "Transaction date, YYYY-MM-DD (default today)")
	_ = addCmd.MarkFlagRequired("symbol")
	_ = addCmd.MarkFlagRequired("quantity")
	_ = addCmd.MarkFlagRequired("price")
	addCmd.SilenceUsage = true

	deleteCmd := &cobra.Command{
		Use:   "delete PORTFOLIO_ID TRANSACTION_ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxDelete(cmd, opts, args[0], args[1])
		},
	}
	deleteCmd.SilenceUsage = true

	cmd.AddCommand(addCmd, deleteCmd)

	return cmd
}

func parseTxType(s string) (api.TransactionType, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return api.TransactionBuy, nil
	case "SELL":
		return api.TransactionSell, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q (use buy or sell)", s)
	}
}

func parseTxDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

func runTxAdd(cmd *cobra.Command, opts txOptions, portfolioID, txType, symbol string, quantity, price float64, date string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	parsedType, err := parseTxType(txType)
	if err != nil {
		return err
	}
	parsedDate, err := parseTxDate(date)
	if err != nil {
		return err
	}

	store, err := newPortfolioStore(ctx, portfolioOptions(opts))
	if err != nil {
		return err
	}

	// The store requires the portfolio to be focused before mutating it.
	store.FetchPortfolio(ctx, portfolioID)
	if msg := store.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	store.CreateTransaction(ctx, portfolioID, portfolio.NewTransactionData{
		Type:     parsedType,
		Ticker:   symbol,
		Quantity: quantity,
		Price:    price,
		Date:     parsedDate,
	})
	if msg := store.TransactionErr(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of %s x %s\n",
		strings.ToLower(string(parsedType)), formatQuantity(quantity), symbol)
	return nil
}

func runTxDelete(cmd *cobra.Command, opts txOptions, portfolioID, transactionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := newPortfolioStore(ctx, portfolioOptions(opts))
	if err != nil {
		return err
	}

	store.DeleteTransaction(ctx, portfolioID, transactionID)
	if msg := store.TransactionErr(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", transactionID)
	return nil
}

func init() {
	txCmd := newTxCmd(txOptions{
		configPath: config.ConfigPath(),
		secrets:    keyring.NewEnvStore(keyring.NewSystemStore()),
	})
	rootCmd.AddCommand(txCmd)
}
