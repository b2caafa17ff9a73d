package reporting

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"assetra/internal/domain"
	"assetra/internal/ledger"
	"assetra/internal/storage/memory"
)

func setupLedger(t *testing.T) *ledger.Store {
	t.Helper()
	ctx := context.Background()

	store, err := ledger.Open(ctx, memory.NewBlobStore())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	token, err := store.CreateToken(ctx, domain.TokenSpec{
		Name:            "Test Corporate Bond",
		Symbol:          "TCB27",
		ISIN:            "KE1111111111",
		TotalSupply:     1000,
		AvailableSupply: 1000,
		Price:           50,
		Owner:           "issuer@example.com",
		Type:            domain.TokenTypeBond,
		Sector:          "Finance",
	})
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if _, err := store.ListToken(ctx, token.ID, 60); err != nil {
		t.Fatalf("list token: %v", err)
	}
	if _, err := store.CreateTrade(ctx, domain.TradeSpec{
		TokenID: token.ID,
		Type:    domain.TradeTypeBuy,
		Amount:  200,
		Price:   60,
		Buyer:   "inv@example.com",
		Seller:  "issuer@example.com",
	}); err != nil {
		t.Fatalf("create trade: %v", err)
	}
	if _, err := store.CreateTrade(ctx, domain.TradeSpec{
		TokenID: token.ID,
		Type:    domain.TradeTypeSell,
		Amount:  50,
		Price:   62,
		Buyer:   "issuer@example.com",
		Seller:  "inv@example.com",
	}); err != nil {
		t.Fatalf("create trade: %v", err)
	}
	return store
}

func TestGenerate(t *testing.T) {
	store := setupLedger(t)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(store).WithClock(func() time.Time { return fixed })

	r := g.Generate()

	if !r.GeneratedAt.Equal(fixed) {
		t.Errorf("expected fixed clock, got %v", r.GeneratedAt)
	}
	// 6 seeded tokens plus the one created here.
	if r.Summary.TotalTokens != 7 {
		t.Errorf("expected 7 tokens, got %d", r.Summary.TotalTokens)
	}
	if r.Summary.ListedTokens != 7 {
		t.Errorf("expected 7 listed tokens, got %d", r.Summary.ListedTokens)
	}
	if r.Summary.TotalTrades != 2 || r.Summary.BuyTrades != 1 || r.Summary.SellTrades != 1 {
		t.Errorf("unexpected trade counts: %+v", r.Summary)
	}
	wantVolume := 200*60.0 + 50*62.0
	if r.Summary.TradedVolume != wantVolume {
		t.Errorf("expected volume %f, got %f", wantVolume, r.Summary.TradedVolume)
	}

	var row *TokenRow
	for i := range r.Tokens {
		if r.Tokens[i].Symbol == "TCB27" {
			row = &r.Tokens[i]
		}
	}
	if row == nil {
		t.Fatal("TCB27 missing from token rows")
	}
	// 1000 - 200 - 50: both directions consume supply.
	if row.AvailableSupply != 750 || row.SoldSupply != 250 {
		t.Errorf("supply accounting wrong: available=%f sold=%f", row.AvailableSupply, row.SoldSupply)
	}

	var inv *HoldingRow
	for i := range r.Holdings {
		if r.Holdings[i].User == "inv@example.com" {
			inv = &r.Holdings[i]
		}
	}
	if inv == nil {
		t.Fatal("investor missing from holdings")
	}
	if inv.Bought != 200 || inv.Sold != 50 || inv.Net != 150 {
		t.Errorf("investor position wrong: %+v", *inv)
	}

	for _, tr := range r.Trades {
		if tr.Symbol != "TCB27" {
			t.Errorf("trade row has wrong symbol %q", tr.Symbol)
		}
		if tr.Value != tr.Amount*tr.Price {
			t.Errorf("trade value %f != %f * %f", tr.Value, tr.Amount, tr.Price)
		}
	}
}

func TestGenerate_TradesInSettlementOrder(t *testing.T) {
	ctx := context.Background()
	store, err := ledger.Open(ctx, memory.NewBlobStore())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	newToken := func(symbol string) *domain.Token {
		tok, err := store.CreateToken(ctx, domain.TokenSpec{
			Name:            symbol + " Bond",
			Symbol:          symbol,
			TotalSupply:     1000,
			AvailableSupply: 1000,
			Price:           10,
			Owner:           "issuer@example.com",
			Type:            domain.TokenTypeBond,
		})
		if err != nil {
			t.Fatalf("create token: %v", err)
		}
		return tok
	}
	a := newToken("AAA")
	b := newToken("BBB")

	// Interleave settlements across both tokens.
	for _, id := range []string{a.ID, b.ID, a.ID, b.ID} {
		if _, err := store.CreateTrade(ctx, domain.TradeSpec{
			TokenID: id, Type: domain.TradeTypeBuy, Amount: 1, Price: 10,
			Buyer: "inv@example.com", Seller: "issuer@example.com",
		}); err != nil {
			t.Fatalf("create trade: %v", err)
		}
	}

	r := NewGenerator(store).Generate()

	var got []string
	for _, tr := range r.Trades {
		got = append(got, tr.Symbol)
	}
	want := []string{"AAA", "BBB", "AAA", "BBB"}
	if len(got) != len(want) {
		t.Fatalf("expected %d trade rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trade rows token-grouped instead of settlement order: %v", got)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	store := setupLedger(t)
	r := NewGenerator(store).Generate()

	md := RenderMarkdown(r)

	for _, want := range []string{
		"# Marketplace Report",
		"## Summary",
		"| Total Tokens | 7 |",
		"## Tokens",
		"| TCB27 |",
		"## Holdings",
		"## Trades",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	store := setupLedger(t)
	r := NewGenerator(store).Generate()

	tokenCSV := RenderTokenCSV(r.Tokens)
	lines := strings.Split(strings.TrimSpace(tokenCSV), "\n")
	if len(lines) != 1+7 {
		t.Fatalf("expected header + 7 token rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,symbol,name,") {
		t.Errorf("unexpected token header %q", lines[0])
	}

	tradeCSV := RenderTradeCSV(r.Trades)
	lines = strings.Split(strings.TrimSpace(tradeCSV), "\n")
	if len(lines) != 1+2 {
		t.Fatalf("expected header + 2 trade rows, got %d lines", len(lines))
	}
}

func TestCSVEscaping(t *testing.T) {
	rows := []TokenRow{{
		ID:     "t1",
		Symbol: "X",
		Name:   "Name, with comma",
		Type:   "bond",
	}}
	out := RenderTokenCSV(rows)
	if !strings.Contains(out, "\"Name, with comma\"") {
		t.Errorf("comma field not quoted: %q", out)
	}
}

func TestWriteFiles(t *testing.T) {
	store := setupLedger(t)
	dir := filepath.Join(t.TempDir(), "reports")

	if err := NewGenerator(store).WriteFiles(dir); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}
	for _, name := range []string{FileMarkdown, FileTokenCSV, FileTradeCSV} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
