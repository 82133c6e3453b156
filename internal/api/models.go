package api

// TransactionType distinguishes buys from sells.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// =============================================================================
// User Types
// =============================================================================

// UserProfile represents the authenticated user as returned by /users/me.
// Profiles are immutable once fetched; each fetch replaces them wholesale.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login. On success Token
// is set; on an application-level rejection the server answers with Error
// instead (this is not a transport failure).
type LoginResponse struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// =============================================================================
// Portfolio Types
// =============================================================================

// Portfolio is a named collection of stock transactions belonging to one
// user. Two representations share this type: the list endpoint returns
// summary objects without transactions, the single-portfolio endpoint
// returns the full object. Callers must not assume Transactions is
// populated unless the portfolio came from GetPortfolio.
type Portfolio struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
	UserID       string        `json:"userId"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// PortfolioCreateRequest is the body of POST /portfolios.
type PortfolioCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// Transaction Types
// =============================================================================

// Stock describes a tradable instrument as stored by the server.
type Stock struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange,omitempty"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Transaction is a single recorded buy or sell. Depending on the server
// version the instrument arrives either as a flat stockSymbol or as a
// nested stock object; use Symbol to read it uniformly.
type Transaction struct {
	ID              string          `json:"id"`
	StockSymbol     string          `json:"stockSymbol,omitempty"`
	Stock           Stock           `json:"stock,omitempty"`
	TransactionType TransactionType `json:"transactionType"`
	Quantity        float64         `json:"quantity"`
	PricePerShare   float64         `json:"pricePerShare"`
	TransactionDate string          `json:"transactionDate"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// Symbol returns the ticker symbol regardless of which representation the
// server used.
func (t Transaction) Symbol() string {
	if t.StockSymbol != "" {
		return t.StockSymbol
	}
	return t.Stock.Symbol
}

// TransactionCreateRequest is the body of POST /portfolios/{id}/transactions.
// It is deliberately distinct from the stored Transaction shape.
type TransactionCreateRequest struct {
	PortfolioID     string          `json:"portfolioId"`
	StockSymbol     string          `json:"stockSymbol"`
	TransactionType TransactionType `json:"transactionType"`
	Quantity        float64         `json:"quantity"`
	PricePerShare   float64         `json:"pricePerShare"`
	TransactionDate string          `json:"transactionDate"`
}

// =============================================================================
// Stock Search Types
// =============================================================================

// StockSearchItem is one match from GET /stocks/search.
type StockSearchItem struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol,omitempty"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type,omitempty"`
}

// StockSearchResponse is the body of GET /stocks/search.
type StockSearchResponse struct {
	Count  int               `json:"count"`
	Result []StockSearchItem `json:"result"`
}
