package reporting

import "time"

// Report is the marketplace snapshot rendered to Markdown and CSV.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Summary
	Summary MarketSummary

	// Per-token rows (insertion order of the ledger)
	Tokens []TokenRow

	// Per-trade rows (settlement order)
	Trades []TradeRow

	// Per-user positions derived from the trade history
	Holdings []HoldingRow
}

// MarketSummary aggregates over the whole ledger.
type MarketSummary struct {
	TotalTokens    int
	ListedTokens   int
	BondTokens     int
	AssetTokens    int
	TotalTrades    int
	BuyTrades      int
	SellTrades     int
	TradedVolume   float64 // sum of amount*price over all trades
	TotalMarketCap float64 // sum of marketCapUSD over listed tokens
}

// TokenRow is one row of the token table.
type TokenRow struct {
	ID              string
	Symbol          string
	Name            string
	Type            string
	Sector          string
	ISIN            string
	Price           float64
	TotalSupply     float64
	AvailableSupply float64
	SoldSupply      float64 // total - available
	MarketCapUSD    float64
	Listed          bool
}

// HoldingRow aggregates one user's settled position in one token.
type HoldingRow struct {
	User    string
	TokenID string
	Symbol  string
	Bought  float64 // units bought
	Sold    float64 // units sold
	Net     float64 // bought - sold
}

// TradeRow is one row of the trade table.
type TradeRow struct {
	ID        string
	TokenID   string
	Symbol    string
	Type      string
	Amount    float64
	Price     float64
	Value     float64 // amount * price
	Buyer     string
	Seller    string
	Timestamp time.Time
}
