package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"assetra/internal/domain"
	"assetra/internal/ledger"
	"assetra/internal/marketplace"
	"assetra/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := ledger.Open(context.Background(), memory.NewBlobStore())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	svc := marketplace.NewService(store, nil, nil, zap.NewNop())
	srv := httptest.NewServer(NewRouter(svc, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateToken(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/tokens", domain.TokenSpec{
		Name:        "Test Bond",
		Symbol:      "TB26",
		TotalSupply: 1000,
		Price:       100,
		Owner:       "issuer@example.com",
		Type:        domain.TokenTypeBond,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var token domain.Token
	decode(t, resp, &token)
	if token.ID == "" {
		t.Error("expected assigned token id")
	}
	if token.PriceHBAR != 100 || token.MarketCapUSD != 100000 {
		t.Errorf("derived pricing wrong: priceHBAR=%f marketCapUSD=%f", token.PriceHBAR, token.MarketCapUSD)
	}
	if token.IsNSEListed {
		t.Error("new token must start unlisted")
	}
}

func TestCreateTokenBadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/tokens", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetTokensIncludesSeed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tokens")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var tokens []domain.Token
	decode(t, resp, &tokens)
	if len(tokens) != 6 {
		t.Fatalf("expected 6 seeded tokens, got %d", len(tokens))
	}
}

func TestGetNSETokensExcludesUserTokens(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/tokens", domain.TokenSpec{
		Name:        "Private Bond",
		TotalSupply: 100,
		Price:       10,
		Owner:       "issuer@example.com",
	})
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/tokens/nse")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var nse []domain.Token
	decode(t, resp, &nse)
	if len(nse) != 6 {
		t.Fatalf("expected the 6 catalog tokens, got %d", len(nse))
	}
	for _, tok := range nse {
		if tok.Owner != domain.NSEOwner {
			t.Errorf("non-NSE token %s in catalog response", tok.Symbol)
		}
	}
}

func TestListTokenLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/tokens", domain.TokenSpec{
		Name:        "Listable Bond",
		TotalSupply: 500,
		Price:       10,
		Owner:       "issuer@example.com",
	})
	var token domain.Token
	decode(t, resp, &token)

	resp = postJSON(t, fmt.Sprintf("%s/tokens/%s/list", srv.URL, token.ID), map[string]float64{"price": 25})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var listed domain.Token
	decode(t, resp, &listed)
	if !listed.IsNSEListed || listed.Price != 25 {
		t.Errorf("listing not applied: listed=%v price=%f", listed.IsNSEListed, listed.Price)
	}

	resp, err := http.Get(srv.URL + "/tokens/listed")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var listedTokens []domain.Token
	decode(t, resp, &listedTokens)
	found := false
	for _, lt := range listedTokens {
		if lt.ID == token.ID {
			found = true
		}
	}
	if !found {
		t.Error("listed token missing from /tokens/listed")
	}
}

func TestListTokenNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/tokens/no-such-id/list", map[string]float64{"price": 25})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTradeStatusMapping(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/tokens", domain.TokenSpec{
		Name:            "Trade Bond",
		TotalSupply:     1000,
		AvailableSupply: 1000,
		Price:           100,
		Owner:           "issuer@example.com",
	})
	var token domain.Token
	decode(t, resp, &token)

	// Settled buy.
	resp = postJSON(t, srv.URL+"/trades", domain.TradeSpec{
		TokenID: token.ID,
		Type:    domain.TradeTypeBuy,
		Amount:  300,
		Price:   100,
		Buyer:   "inv@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var trade domain.Trade
	decode(t, resp, &trade)
	if trade.ID == "" || trade.Amount != 300 {
		t.Errorf("unexpected trade %+v", trade)
	}

	// Oversized follow-up is rejected with 409.
	resp = postJSON(t, srv.URL+"/trades", domain.TradeSpec{
		TokenID: token.ID,
		Type:    domain.TradeTypeBuy,
		Amount:  800,
		Price:   100,
		Buyer:   "inv@example.com",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// Unknown token is 404.
	resp = postJSON(t, srv.URL+"/trades", domain.TradeSpec{
		TokenID: "no-such-id",
		Type:    domain.TradeTypeBuy,
		Amount:  1,
		Price:   100,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// Non-positive amount is 400.
	resp = postJSON(t, srv.URL+"/trades", domain.TradeSpec{
		TokenID: token.ID,
		Type:    domain.TradeTypeBuy,
		Amount:  0,
		Price:   100,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUserEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/tokens", domain.TokenSpec{
		Name:        "Owned Bond",
		TotalSupply: 100,
		Price:       10,
		Owner:       "alice@example.com",
	})
	var token domain.Token
	decode(t, resp, &token)

	resp = postJSON(t, srv.URL+"/trades", domain.TradeSpec{
		TokenID: token.ID,
		Type:    domain.TradeTypeBuy,
		Amount:  10,
		Price:   10,
		Buyer:   "bob@example.com",
		Seller:  "alice@example.com",
	})
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/users/bob@example.com/tokens")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var bobTokens []domain.Token
	decode(t, resp, &bobTokens)
	if len(bobTokens) != 1 || bobTokens[0].ID != token.ID {
		t.Errorf("expected bought token for bob, got %d tokens", len(bobTokens))
	}

	resp, err = http.Get(srv.URL + "/users/alice@example.com/trades")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var aliceTrades []domain.Trade
	decode(t, resp, &aliceTrades)
	if len(aliceTrades) != 1 {
		t.Errorf("expected 1 trade for alice, got %d", len(aliceTrades))
	}

	resp, err = http.Get(srv.URL + "/users/stranger@example.com/trades")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var none []domain.Trade
	decode(t, resp, &none)
	if len(none) != 0 {
		t.Errorf("expected empty list for stranger, got %d", len(none))
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/marketplace/search?q=bond&type=bond")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var results []domain.Token
	decode(t, resp, &results)
	if len(results) == 0 {
		t.Fatal("expected seeded bond results")
	}
	for _, tok := range results {
		if tok.Type != domain.TokenTypeBond {
			t.Errorf("type filter leaked %s token %s", tok.Type, tok.Symbol)
		}
	}

	resp, err = http.Get(srv.URL + "/marketplace/search?type=equity")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
