// Package portfolio holds the client-side portfolio state: the list of
// portfolios, the currently focused portfolio with its transactions, and
// the error surfaces of both.
package portfolio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocktracker/stocktracker-cli/internal/api"
)

// User-facing error wording. The fallback covers every failure whose
// server body carried no usable message.
const (
	fallbackErrMsg    = "Ein unbekannter Fehler ist aufgetreten."
	createTxErrPrefix = "Fehler beim Erstellen der Transaktion: "
	deleteTxErrPrefix = "Fehler beim Löschen der Transaktion: "
)

// NewTransactionData is the user-input shape for recording a transaction.
// It is mapped onto api.TransactionCreateRequest before submission.
type NewTransactionData struct {
	Type     api.TransactionType
	Ticker   string
	Quantity float64
	Price    float64
	Date     time.Time
}

// Store is the portfolio store. Portfolio-list operations and transaction
// mutations keep separate error channels: both can be in flight from
// different parts of the UI, and one failure must not mask the other.
//
// The list and the current portfolio have independent lifecycles; the
// list holds summaries while Current carries the full representation with
// transactions.
type Store struct {
	client *api.Client
	log    zerolog.Logger

	mu         sync.RWMutex
	portfolios []api.Portfolio
	current    *api.Portfolio
	isLoading  bool
	err        string
	txErr      string
	fetchGen   uint64
	subs       []func()
}

// New creates an empty portfolio store backed by the given API client.
func New(client *api.Client, log zerolog.Logger) *Store {
	return &Store{client: client, log: log}
}

// Portfolios returns the portfolio list in server order. The entries are
// summaries; their Transactions are not populated.
func (s *Store) Portfolios() []api.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portfolios
}

// Current returns the currently focused portfolio, or nil.
func (s *Store) Current() *api.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsLoading reports whether a fetch is in flight. It is a plain flag, not
// a counter: overlapping fetches share it and call-sites are expected to
// serialize (e.g. by disabling the triggering element while true).
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Err returns the list/detail-fetch error message, or "" when clear.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// TransactionErr returns the transaction-mutation error message, or ""
// when clear.
func (s *Store) TransactionErr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txErr
}

// Subscribe registers a callback invoked after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// beginFetch marks a fetch as started and returns its generation. A fetch
// whose generation has been superseded by a newer one must discard its
// result entirely: the newer fetch owns isLoading and err from then on,
// making the overall behavior last-issued-wins.
func (s *Store) beginFetch() uint64 {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return gen
}

// FetchPortfolios loads the portfolio list, replacing it wholesale on
// success. Failures land in Err; the loading flag clears when the fetch
// finishes unless a newer fetch has taken over.
func (s *Store) FetchPortfolios(ctx context.Context) {
	gen := s.beginFetch()

	list, err := s.client.ListPortfolios(ctx)

	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.err = errMessage(err)
		s.log.Error().Err(err).Msg("Fehler beim Abrufen der Portfolios")
	} else {
		s.portfolios = list
	}
	s.isLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchPortfolio loads one portfolio in full, including transactions, into
// Current. It shares the loading flag and error channel with
// FetchPortfolios.
func (s *Store) FetchPortfolio(ctx context.Context, id string) {
	gen := s.beginFetch()

	p, err := s.client.GetPortfolio(ctx, id)

	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.err = errMessage(err)
		s.log.Error().Err(err).Msg("Fehler beim Abrufen des Portfolios")
	} else {
		s.current = p
	}
	s.isLoading = false
	s.mu.Unlock()
	s.notify()
}

// CreatePortfolio creates a portfolio and appends the server's response to
// the list. The server-assigned id is trusted as-is; identical repeated
// calls append separate entries.
func (s *Store) CreatePortfolio(ctx context.Context, name, description string) {
	p, err := s.client.CreatePortfolio(ctx, api.PortfolioCreateRequest{Name: name, Description: description})
	if err != nil {
		s.mu.Lock()
		s.err = errMessage(err)
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("Fehler beim Erstellen des Portfolios")
		s.notify()
		return
	}

	s.mu.Lock()
	s.portfolios = append(s.portfolios, *p)
	s.mu.Unlock()
	s.notify()
}

// DeletePortfolio deletes a portfolio remotely and, on success, removes
// the matching entry from the list by id.
func (s *Store) DeletePortfolio(ctx context.Context, id string) {
	if err := s.client.DeletePortfolio(ctx, id); err != nil {
		s.mu.Lock()
		s.err = errMessage(err)
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("Fehler beim Löschen des Portfolios")
		s.notify()
		return
	}

	s.mu.Lock()
	kept := s.portfolios[:0:0]
	for _, p := range s.portfolios {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.portfolios = kept
	s.mu.Unlock()
	s.notify()
}

// CreateTransaction records a buy or sell against the currently focused
// portfolio and refetches it on success. The server's transaction list is
// the source of truth, there is no optimistic insertion. Without a current
// portfolio it fails fast with no network call. Failures land in
// TransactionErr, never in Err.
func (s *Store) CreateTransaction(ctx context.Context, portfolioID string, data NewTransactionData) {
	s.mu.Lock()
	s.txErr = ""
	current := s.current
	s.mu.Unlock()
	s.notify()

	if current == nil {
		err := errors.New("Portfolio not found")
		s.log.Error().Err(err).Msg("Fehler beim Erstellen der Transaktion")
		s.setTxErr(createTxErrPrefix + err.Error())
		return
	}

	req := api.TransactionCreateRequest{
		PortfolioID:     portfolioID,
		StockSymbol:     data.Ticker,
		TransactionType: data.Type,
		Quantity:        data.Quantity,
		PricePerShare:   data.Price,
		TransactionDate: data.Date.UTC().Format(time.RFC3339),
	}

	if err := s.client.CreateTransaction(ctx, portfolioID, req); err != nil {
		s.log.Error().Err(err).Msg("Fehler beim Erstellen der Transaktion")
		s.setTxErr(txErrMessage(err, createTxErrPrefix))
		return
	}

	s.FetchPortfolio(ctx, portfolioID)
}

// DeleteTransaction removes a transaction remotely and refetches the
// portfolio on success.
func (s *Store) DeleteTransaction(ctx context.Context, portfolioID, transactionID string) {
	if err := s.client.DeleteTransaction(ctx, portfolioID, transactionID); err != nil {
		s.log.Error().Err(err).Msg("Fehler beim Löschen der Transaktion")
		s.setTxErr(txErrMessage(err, deleteTxErrPrefix))
		return
	}

	s.FetchPortfolio(ctx, portfolioID)
}

func (s *Store) setTxErr(msg string) {
	s.mu.Lock()
	s.txErr = msg
	s.mu.Unlock()
	s.notify()
}

// errMessage maps a failure onto the list/detail error channel: the
// server's message when the rejection carried one, the error's own text
// otherwise, and the fixed fallback when there is nothing usable.
func errMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallbackErrMsg
	}
	if err == nil || err.Error() == "" {
		return fallbackErrMsg
	}
	return err.Error()
}

// txErrMessage maps a failure onto the transaction error channel. Message
// precedence: a server rejection's own message verbatim; the fixed
// fallback when the rejection body was empty or opaque; otherwise the
// prefixed text of the underlying error.
func txErrMessage(err error, prefix string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallbackErrMsg
	}
	if err == nil || err.Error() == "" {
		return fallbackErrMsg
	}
	return prefix + err.Error()
}
