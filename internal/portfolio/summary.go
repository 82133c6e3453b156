package portfolio

import (
	"sort"

	"github.com/stocktracker/stocktracker-cli/internal/api"
)

// Holding is the aggregated position in one symbol, derived client-side
// from a portfolio's transaction history.
type Holding struct {
	Symbol string
	// Shares is the net quantity held: buys minus sells.
	Shares float64
	// AvgBuyPrice is the average price across all buys of the symbol.
	AvgBuyPrice float64
	// CostBasis is Shares valued at AvgBuyPrice.
	CostBasis float64
	// Realized is the total proceeds of all sells of the symbol.
	Realized float64
}

// Summary aggregates a full portfolio.
type Summary struct {
	Holdings      []Holding
	TotalInvested float64
	TotalRealized float64
	Transactions  int
}

// Summarize computes per-symbol holdings and totals from a portfolio's
// transactions. It requires the full representation; on a summary object
// it returns an empty Summary. The server orders and validates the
// transactions, so no business-rule checks happen here; a sell without
// matching buys simply yields negative shares.
func Summarize(p *api.Portfolio) Summary {
	if p == nil || len(p.Transactions) == 0 {
		return Summary{}
	}

	type acc struct {
		shares    float64
		buyCost   float64
		buyShares float64
		realized  float64
	}
	bySymbol := make(map[string]*acc)

	for _, tx := range p.Transactions {
		symbol := tx.Symbol()
		a := bySymbol[symbol]
		if a == nil {
			a = &acc{}
			bySymbol[symbol] = a
		}
		switch tx.TransactionType {
		case api.TransactionBuy:
			a.shares += tx.Quantity
			a.buyShares += tx.Quantity
			a.buyCost += tx.Quantity * tx.PricePerShare
		case api.TransactionSell:
			a.shares -= tx.Quantity
			a.realized += tx.Quantity * tx.PricePerShare
		}
	}

	summary := Summary{Transactions: len(p.Transactions)}
	for symbol, a := range bySymbol {
		h := Holding{
			Symbol:   symbol,
			Shares:   a.shares,
			Realized: a.realized,
		}
		if a.buyShares > 0 {
			h.AvgBuyPrice = a.buyCost / a.buyShares
		}
		h.CostBasis = h.Shares * h.AvgBuyPrice
		summary.Holdings = append(summary.Holdings, h)
		summary.TotalInvested += h.CostBasis
		summary.TotalRealized += h.Realized
	}

	sort.Slice(summary.Holdings, func(i, j int) bool {
		return summary.Holdings[i].Symbol < summary.Holdings[j].Symbol
	})

	return summary
}
