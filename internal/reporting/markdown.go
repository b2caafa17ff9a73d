package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Marketplace Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Tokens | %d |\n", r.Summary.TotalTokens))
	sb.WriteString(fmt.Sprintf("| Listed Tokens | %d |\n", r.Summary.ListedTokens))
	sb.WriteString(fmt.Sprintf("| Bond Tokens | %d |\n", r.Summary.BondTokens))
	sb.WriteString(fmt.Sprintf("| Asset Tokens | %d |\n", r.Summary.AssetTokens))
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Summary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Buy Trades | %d |\n", r.Summary.BuyTrades))
	sb.WriteString(fmt.Sprintf("| Sell Trades | %d |\n", r.Summary.SellTrades))
	sb.WriteString(fmt.Sprintf("| Traded Volume | %.2f |\n", r.Summary.TradedVolume))
	sb.WriteString(fmt.Sprintf("| Listed Market Cap (USD) | %.2f |\n", r.Summary.TotalMarketCap))
	sb.WriteString("\n")

	// Tokens
	sb.WriteString("## Tokens\n\n")
	if len(r.Tokens) > 0 {
		sb.WriteString("| Symbol | Name | Type | Sector | Price | Available / Total | Sold | Listed |\n")
		sb.WriteString("|--------|------|------|--------|-------|-------------------|------|--------|\n")
		for _, t := range r.Tokens {
			listed := "no"
			if t.Listed {
				listed = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f | %.0f / %.0f | %.0f | %s |\n",
				t.Symbol, t.Name, t.Type, t.Sector, t.Price,
				t.AvailableSupply, t.TotalSupply, t.SoldSupply, listed))
		}
	} else {
		sb.WriteString("No tokens in the ledger.\n")
	}
	sb.WriteString("\n")

	// Holdings
	sb.WriteString("## Holdings\n\n")
	if len(r.Holdings) > 0 {
		sb.WriteString("| User | Token | Bought | Sold | Net |\n")
		sb.WriteString("|------|-------|--------|------|-----|\n")
		for _, h := range r.Holdings {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f |\n",
				h.User, h.Symbol, h.Bought, h.Sold, h.Net))
		}
	} else {
		sb.WriteString("No positions yet.\n")
	}
	sb.WriteString("\n")

	// Trades
	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| Token | Type | Amount | Price | Value | Buyer | Seller | Timestamp |\n")
		sb.WriteString("|-------|------|--------|-------|-------|-------|--------|----------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %s | %s | %s |\n",
				t.Symbol, t.Type, t.Amount, t.Price, t.Value,
				t.Buyer, t.Seller, t.Timestamp.Format(time.RFC3339)))
		}
	} else {
		sb.WriteString("No trades settled yet.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
