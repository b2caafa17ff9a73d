package domain

import "time"

// TokenType classifies a token as a fixed-income bond or an equity-like asset.
type TokenType string

const (
	TokenTypeBond  TokenType = "bond"
	TokenTypeAsset TokenType = "asset"

	// TokenTypeAll is a search filter value, never stored on a token.
	TokenTypeAll TokenType = "all"
)

// String returns the string representation of TokenType.
func (t TokenType) String() string {
	return string(t)
}

// IsValid checks if the type is a storable token type.
func (t TokenType) IsValid() bool {
	return t == TokenTypeBond || t == TokenTypeAsset
}

// ChartLen is the fixed number of samples in a token's price history.
const ChartLen = 7

// Token represents a fractionalized financial instrument with a fixed total
// supply and a mutable available (unsold) supply. JSON tags match the wire
// form of the persisted ledger blobs.
type Token struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Symbol          string    `json:"symbol"`
	Decimals        int       `json:"decimals"`
	ISIN            string    `json:"isin"`
	TotalSupply     float64   `json:"totalSupply"`     // fixed at creation
	AvailableSupply float64   `json:"availableSupply"` // 0 <= available <= total
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"createdAt"`
	Owner           string    `json:"owner"`
	Type            TokenType `json:"type"`
	Description     string    `json:"description,omitempty"`
	IsNSEListed     bool      `json:"isNSEListed"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	MarketCap       float64   `json:"marketCap,omitempty"` // legacy single-currency figure
	Change24h       float64   `json:"change24h,omitempty"`
	Volume24h       float64   `json:"volume24h,omitempty"` // legacy single-currency figure
	Sector          string    `json:"sector,omitempty"`
	PriceHBAR       float64   `json:"priceHBAR"`
	PriceUSD        float64   `json:"priceUSD"`
	MarketCapHBAR   float64   `json:"marketCapHBAR"`
	MarketCapUSD    float64   `json:"marketCapUSD"`
	Volume24hHBAR   float64   `json:"volume24hHBAR"`
	Volume24hUSD    float64   `json:"volume24hUSD"`
	Chart7d         []float64 `json:"chart7d,omitempty"`
}

// TokenSpec carries the caller-supplied attributes for token creation.
// ID, creation timestamp and listing state are assigned by the ledger.
type TokenSpec struct {
	Name            string    `json:"name"`
	Symbol          string    `json:"symbol"`
	Decimals        int       `json:"decimals"`
	ISIN            string    `json:"isin"`
	TotalSupply     float64   `json:"totalSupply"`
	AvailableSupply float64   `json:"availableSupply"`
	Price           float64   `json:"price"`
	Owner           string    `json:"owner"`
	Type            TokenType `json:"type"`
	Description     string    `json:"description,omitempty"`
	Sector          string    `json:"sector,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
}
