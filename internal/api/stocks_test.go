package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchStocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"count":2,
			"result":[
				{"symbol":"AAPL","displaySymbol":"AAPL","description":"APPLE INC","type":"Common Stock"},
				{"symbol":"APC.BE","displaySymbol":"APC.BE","description":"APPLE INC","type":"Common Stock"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("abc"))
	result, err := client.SearchStocks(context.Background(), "apple")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Result, 2)
	assert.Equal(t, "AAPL", result.Result[0].Symbol)
	assert.Equal(t, "APPLE INC", result.Result[0].Description)
}

func TestClient_SearchStocks_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"count":0,"result":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("abc"))
	result, err := client.SearchStocks(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Result)
}
