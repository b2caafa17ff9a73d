package domain

import "time"

// TradeType is the direction of a trade.
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

// String returns the string representation of TradeType.
func (t TradeType) String() string {
	return string(t)
}

// IsValid checks if the trade type is a valid value.
func (t TradeType) IsValid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// Trade records a settled buy or sell against a token's available supply.
// Trades are immutable once created.
type Trade struct {
	ID        string    `json:"id"`
	TokenID   string    `json:"tokenId"`
	Type      TradeType `json:"type"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Buyer     string    `json:"buyer"`
	Seller    string    `json:"seller"`
	Timestamp time.Time `json:"timestamp"`
}

// TradeSpec carries the caller-supplied attributes for trade settlement.
// ID and timestamp are assigned by the ledger.
type TradeSpec struct {
	TokenID string    `json:"tokenId"`
	Type    TradeType `json:"type"`
	Amount  float64   `json:"amount"`
	Price   float64   `json:"price"`
	Buyer   string    `json:"buyer"`
	Seller  string    `json:"seller"`
}
