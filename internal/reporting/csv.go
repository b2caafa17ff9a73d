package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderTokenCSV renders token rows as a CSV string.
func RenderTokenCSV(rows []TokenRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("id,symbol,name,type,sector,isin,price,total_supply,available_supply,sold_supply,market_cap_usd,listed\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%.2f,%.2f,%.2f,%.2f,%.2f,%t\n",
			r.ID,
			csvEscape(r.Symbol),
			csvEscape(r.Name),
			r.Type,
			csvEscape(r.Sector),
			r.ISIN,
			r.Price,
			r.TotalSupply,
			r.AvailableSupply,
			r.SoldSupply,
			r.MarketCapUSD,
			r.Listed,
		))
	}

	return sb.String()
}

// RenderTradeCSV renders trade rows as a CSV string.
func RenderTradeCSV(rows []TradeRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("id,token_id,symbol,type,amount,price,value,buyer,seller,timestamp\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.2f,%.2f,%.2f,%s,%s,%s\n",
			r.ID,
			r.TokenID,
			csvEscape(r.Symbol),
			r.Type,
			r.Amount,
			r.Price,
			r.Value,
			csvEscape(r.Buyer),
			csvEscape(r.Seller),
			r.Timestamp.Format(time.RFC3339),
		))
	}

	return sb.String()
}

// csvEscape quotes fields containing commas or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
