package api

import (
	"context"
	"fmt"
)

// SearchStocks performs GET /stocks/search with the given query string.
func (c *Client) SearchStocks(ctx context.Context, query string) (*StockSearchResponse, error) {
	resp, err := c.GetWithParams(ctx, "/stocks/search", map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var result StockSearchResponse
	if err := DecodeJSON(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
