// Package reporting produces marketplace snapshot reports from ledger data.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"assetra/internal/domain"
	"assetra/internal/ledger"
)

// Output file names inside the report directory.
const (
	FileMarkdown = "MARKETPLACE.md"
	FileTokenCSV = "tokens.csv"
	FileTradeCSV = "trades.csv"
)

// Generator produces reports from the ledger.
type Generator struct {
	store *ledger.Store
	now   func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(store *ledger.Store) *Generator {
	return &Generator{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a snapshot report over the current ledger state.
func (g *Generator) Generate() *Report {
	tokens := g.store.GetTokens()
	symbols := make(map[string]string, len(tokens))

	r := &Report{GeneratedAt: g.now()}

	for _, t := range tokens {
		symbols[t.ID] = t.Symbol

		r.Summary.TotalTokens++
		switch t.Type {
		case domain.TokenTypeBond:
			r.Summary.BondTokens++
		case domain.TokenTypeAsset:
			r.Summary.AssetTokens++
		}
		if t.IsNSEListed {
			r.Summary.ListedTokens++
			r.Summary.TotalMarketCap += t.MarketCapUSD
		}

		r.Tokens = append(r.Tokens, TokenRow{
			ID:              t.ID,
			Symbol:          t.Symbol,
			Name:            t.Name,
			Type:            t.Type.String(),
			Sector:          t.Sector,
			ISIN:            t.ISIN,
			Price:           t.Price,
			TotalSupply:     t.TotalSupply,
			AvailableSupply: t.AvailableSupply,
			SoldSupply:      t.TotalSupply - t.AvailableSupply,
			MarketCapUSD:    t.MarketCapUSD,
			Listed:          t.IsNSEListed,
		})
	}

	positions := make(map[string]*HoldingRow)
	var positionOrder []string

	for _, tr := range g.store.GetTrades() {
		value := tr.Amount * tr.Price

		r.Summary.TotalTrades++
		switch tr.Type {
		case domain.TradeTypeBuy:
			r.Summary.BuyTrades++
		case domain.TradeTypeSell:
			r.Summary.SellTrades++
		}
		r.Summary.TradedVolume += value

		r.Trades = append(r.Trades, TradeRow{
			ID:        tr.ID,
			TokenID:   tr.TokenID,
			Symbol:    symbols[tr.TokenID],
			Type:      tr.Type.String(),
			Amount:    tr.Amount,
			Price:     tr.Price,
			Value:     value,
			Buyer:     tr.Buyer,
			Seller:    tr.Seller,
			Timestamp: tr.Timestamp,
		})

		if tr.Buyer != "" {
			p := position(positions, &positionOrder, tr.Buyer, tr.TokenID, symbols[tr.TokenID])
			p.Bought += tr.Amount
		}
		if tr.Seller != "" {
			p := position(positions, &positionOrder, tr.Seller, tr.TokenID, symbols[tr.TokenID])
			p.Sold += tr.Amount
		}
	}

	for _, key := range positionOrder {
		p := positions[key]
		p.Net = p.Bought - p.Sold
		r.Holdings = append(r.Holdings, *p)
	}

	return r
}

// position returns the holding row for one (user, token) pair, creating it
// on first use and recording first-seen order.
func position(m map[string]*HoldingRow, order *[]string, user, tokenID, symbol string) *HoldingRow {
	key := user + "\x00" + tokenID
	if p, ok := m[key]; ok {
		return p
	}
	p := &HoldingRow{User: user, TokenID: tokenID, Symbol: symbol}
	m[key] = p
	*order = append(*order, key)
	return p
}

// WriteFiles renders the report and writes all output files to dir.
func (g *Generator) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	r := g.Generate()

	files := map[string]string{
		FileMarkdown: RenderMarkdown(r),
		FileTokenCSV: RenderTokenCSV(r.Tokens),
		FileTradeCSV: RenderTradeCSV(r.Trades),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
