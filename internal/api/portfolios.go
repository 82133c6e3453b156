package api

import (
	"context"
	"fmt"
)

// ListPortfolios retrieves all portfolios of the current user. The returned
// objects are summaries: their Transactions slice is not populated.
func (c *Client) ListPortfolios(ctx context.Context) ([]Portfolio, error) {
	resp, err := c.Get(ctx, "/portfolios")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch portfolios: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var portfolios []Portfolio
	if err := DecodeJSON(resp, &portfolios); err != nil {
		return nil, err
	}

	return portfolios, nil
}

// GetPortfolio retrieves a single portfolio in its full representation,
// including transactions.
func (c *Client) GetPortfolio(ctx context.Context, id string) (*Portfolio, error) {
	resp, err := c.Get(ctx, "/portfolios/"+id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var portfolio Portfolio
	if err := DecodeJSON(resp, &portfolio); err != nil {
		return nil, err
	}

	return &portfolio, nil
}

// CreatePortfolio creates a new portfolio and returns the server's
// representation of it, including the server-assigned id.
func (c *Client) CreatePortfolio(ctx context.Context, req PortfolioCreateRequest) (*Portfolio, error) {
	resp, err := c.Post(ctx, "/portfolios", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var portfolio Portfolio
	if err := DecodeJSON(resp, &portfolio); err != nil {
		return nil, err
	}

	return &portfolio, nil
}

// DeletePortfolio deletes a portfolio by id.
func (c *Client) DeletePortfolio(ctx context.Context, id string) error {
	resp, err := c.Delete(ctx, "/portfolios/"+id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return CheckResponse(resp)
}

// CreateTransaction records a buy or sell against a portfolio. The server
// validates business rules (e.g. enough shares to sell) and answers with a
// structured error body on rejection.
func (c *Client) CreateTransaction(ctx context.Context, portfolioID string, req TransactionCreateRequest) error {
	resp, err := c.Post(ctx, "/portfolios/"+portfolioID+"/transactions", req)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return CheckResponse(resp)
}

// DeleteTransaction removes a transaction from a portfolio.
func (c *Client) DeleteTransaction(ctx context.Context, portfolioID, transactionID string) error {
	resp, err := c.Delete(ctx, "/portfolios/"+portfolioID+"/transactions/"+transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return CheckResponse(resp)
}
