// Package chain talks to the bond-contract gateway. The gateway is a
// separate source of truth from the ledger; nothing in this package is ever
// read back into ledger state.
package chain

// BondDetails mirrors the contract's getBondDetails view.
type BondDetails struct {
	ISIN                   string  `json:"isin"`
	NumberOfBondUnits      int64   `json:"numberOfBondUnits"`
	NominalValue           float64 `json:"nominalValue"`
	TotalValue             float64 `json:"totalValue"`
	InvestmentAmount       float64 `json:"investmentAmount"`
	FractionalDenomination float64 `json:"fractionalDenomination"`
	StartDate              int64   `json:"startDate"`
	MaturityDate           int64   `json:"maturityDate"`
	TokensIssued           int64   `json:"tokensIssued"`
	Configured             bool    `json:"configured"`
}

// BondConfig carries the parameters for configureBond.
type BondConfig struct {
	ISIN                   string  `json:"isin"`
	NumberOfBondUnits      int64   `json:"numberOfBondUnits"`
	NominalValue           float64 `json:"nominalValue"`
	TotalValue             float64 `json:"totalValue"`
	InvestmentAmount       float64 `json:"investmentAmount"`
	FractionalDenomination float64 `json:"fractionalDenomination"`
	StartDate              int64   `json:"startDate"`
	MaturityDate           int64   `json:"maturityDate"`
}

// TxReceipt is the gateway's acknowledgement of a submitted contract call.
type TxReceipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber int64  `json:"blockNumber"`
	Status      string `json:"status"`
}

// Holdings mirrors investorBondHoldings for one (investor, isin) pair.
type Holdings struct {
	Investor string  `json:"investor"`
	ISIN     string  `json:"isin"`
	Tokens   float64 `json:"tokens"`
}

// BondEvent is a contract event delivered over the gateway's WebSocket feed.
type BondEvent struct {
	Event       string  `json:"event"` // BondConfigured | BondTokenized | TokensPurchased
	ISIN        string  `json:"isin"`
	Investor    string  `json:"investor,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	TxHash      string  `json:"txHash"`
	BlockNumber int64   `json:"blockNumber"`
}
