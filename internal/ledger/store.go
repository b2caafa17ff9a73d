// Package ledger implements the marketplace token/trade ledger: two ordered
// collections with supply-conservation invariants, persisted whole to a
// string-keyed blob store after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"assetra/internal/domain"
	"assetra/internal/observability"
	"assetra/internal/storage"
)

// Store owns the token and trade collections. All mutations are serialized
// on one mutex per instance, so supply accounting stays correct when the
// store is hosted behind a concurrent server.
type Store struct {
	mu     sync.RWMutex
	blobs  storage.BlobStore
	tokens []*domain.Token
	trades []*domain.Trade

	// Overridable for tests.
	now   func() time.Time
	newID func() string
}

// Open loads the ledger from the blob store, or seeds it with the fixed
// demonstration catalog when no token blob exists yet. A missing trades
// blob yields an empty trade list, never an error.
func Open(ctx context.Context, blobs storage.BlobStore) (*Store, error) {
	s := &Store{
		blobs: blobs,
		now:   time.Now,
		newID: uuid.NewString,
	}

	tokenData, err := blobs.Get(ctx, storage.KeyTokens)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		for _, seed := range domain.SeedCatalog() {
			t := seed
			t.ID = s.newID()
			t.CreatedAt = s.now().UTC()
			s.tokens = append(s.tokens, &t)
		}
		if err := s.persist(ctx); err != nil {
			return nil, fmt.Errorf("persist seed catalog: %w", err)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	if err := json.Unmarshal(tokenData, &s.tokens); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}

	tradeData, err := blobs.Get(ctx, storage.KeyTrades)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// No trades recorded yet.
	case err != nil:
		return nil, fmt.Errorf("load trades: %w", err)
	default:
		if err := json.Unmarshal(tradeData, &s.trades); err != nil {
			return nil, fmt.Errorf("decode trades: %w", err)
		}
	}

	return s, nil
}

// persist synchronously serializes both full collections under independent
// keys. There is no rollback: a failed write leaves the in-memory state
// ahead of the blob store until the next successful write.
// Caller must hold the write lock.
func (s *Store) persist(ctx context.Context) error {
	start := time.Now()

	tokenData, err := json.Marshal(s.tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	tradeData, err := json.Marshal(s.trades)
	if err != nil {
		return fmt.Errorf("encode trades: %w", err)
	}

	if err := s.blobs.Put(ctx, storage.KeyTokens, tokenData); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	if err := s.blobs.Put(ctx, storage.KeyTrades, tradeData); err != nil {
		return fmt.Errorf("persist trades: %w", err)
	}

	observability.RecordPersist(time.Since(start).Seconds())
	return nil
}

// CreateToken assigns a fresh id and creation timestamp, derives the dual
// currency price and market cap figures from the requested price, seeds the
// 7-sample chart, appends the token and persists. Numeric ranges are the
// caller's responsibility; creation itself has no validation failures.
func (s *Store) CreateToken(ctx context.Context, spec domain.TokenSpec) (*domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &domain.Token{
		ID:              s.newID(),
		Name:            spec.Name,
		Symbol:          spec.Symbol,
		Decimals:        spec.Decimals,
		ISIN:            spec.ISIN,
		TotalSupply:     spec.TotalSupply,
		AvailableSupply: spec.AvailableSupply,
		Price:           spec.Price,
		CreatedAt:       s.now().UTC(),
		Owner:           spec.Owner,
		Type:            spec.Type,
		Description:     spec.Description,
		IsNSEListed:     false,
		ImageURL:        spec.ImageURL,
		Sector:          spec.Sector,
		PriceHBAR:       spec.Price,
		PriceUSD:        spec.Price,
		MarketCapHBAR:   spec.Price * spec.TotalSupply,
		MarketCapUSD:    spec.Price * spec.TotalSupply,
		Volume24hHBAR:   0,
		Volume24hUSD:    0,
		Chart7d:         flatChart(spec.Price),
	}

	s.tokens = append(s.tokens, t)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := copyToken(t)
	return &out, nil
}

// ListToken sets the listing price, recomputes both market caps, marks the
// token NSE-listed and resets the chart to the new price. Returns
// ErrTokenNotFound without effect if the id is unknown. Re-listing an
// already listed token updates the price again.
func (s *Store) ListToken(ctx context.Context, tokenID string, price float64) (*domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findToken(tokenID)
	if t == nil {
		return nil, ErrTokenNotFound
	}

	t.Price = price
	t.PriceHBAR = price
	t.PriceUSD = price
	t.MarketCapHBAR = price * t.TotalSupply
	t.MarketCapUSD = price * t.TotalSupply
	t.IsNSEListed = true
	t.Chart7d = flatChart(price)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := copyToken(t)
	return &out, nil
}

// CreateTrade settles a trade against the referenced token's available
// supply. Preconditions are checked before any mutation: the token must
// exist, the amount must be positive with a known trade type, and the
// amount must not exceed the available supply.
//
// Both buy and sell trades decrement the available supply. Sells are not
// returned to the pool; the direction only affects how the trade is
// reported.
func (s *Store) CreateTrade(ctx context.Context, spec domain.TradeSpec) (*domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findToken(spec.TokenID)
	if t == nil {
		return nil, ErrTokenNotFound
	}
	if spec.Amount <= 0 || !spec.Type.IsValid() {
		return nil, ErrInvalidTrade
	}
	if spec.Amount > t.AvailableSupply {
		return nil, ErrInsufficientSupply
	}

	trade := &domain.Trade{
		ID:        s.newID(),
		TokenID:   spec.TokenID,
		Type:      spec.Type,
		Amount:    spec.Amount,
		Price:     spec.Price,
		Buyer:     spec.Buyer,
		Seller:    spec.Seller,
		Timestamp: s.now().UTC(),
	}

	t.AvailableSupply -= spec.Amount
	s.trades = append(s.trades, trade)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := *trade
	return &out, nil
}

// GetTokens returns the full token list in insertion order.
func (s *Store) GetTokens() []*domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Token, 0, len(s.tokens))
	for _, t := range s.tokens {
		c := copyToken(t)
		result = append(result, &c)
	}
	return result
}

// GetListedTokens returns tokens that have been NSE-listed, in insertion order.
func (s *Store) GetListedTokens() []*domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.tokens {
		if t.IsNSEListed {
			c := copyToken(t)
			result = append(result, &c)
		}
	}
	return result
}

// GetNSETokens returns the tokens held by the NSE operator account, that
// is, the demonstration catalog entries.
func (s *Store) GetNSETokens() []*domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.tokens {
		if t.Owner == domain.NSEOwner {
			c := copyToken(t)
			result = append(result, &c)
		}
	}
	return result
}

// GetUserTokens returns tokens owned by owner plus tokens the user has ever
// bought. A token appears at most once even when matched by both conditions.
func (s *Store) GetUserTokens(owner string) []*domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bought := make(map[string]bool)
	for _, tr := range s.trades {
		if tr.Buyer == owner {
			bought[tr.TokenID] = true
		}
	}

	var result []*domain.Token
	for _, t := range s.tokens {
		if t.Owner == owner || bought[t.ID] {
			c := copyToken(t)
			result = append(result, &c)
		}
	}
	return result
}

// GetTrades returns the full trade list in settlement order.
func (s *Store) GetTrades() []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Trade, 0, len(s.trades))
	for _, tr := range s.trades {
		c := *tr
		result = append(result, &c)
	}
	return result
}

// GetUserTrades returns trades where userID is buyer or seller.
func (s *Store) GetUserTrades(userID string) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, tr := range s.trades {
		if tr.Buyer == userID || tr.Seller == userID {
			c := *tr
			result = append(result, &c)
		}
	}
	return result
}

// GetTokenTrades returns trades referencing tokenID.
func (s *Store) GetTokenTrades(tokenID string) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, tr := range s.trades {
		if tr.TokenID == tokenID {
			c := *tr
			result = append(result, &c)
		}
	}
	return result
}

// SearchTokens restricts to listed tokens, then applies a case-insensitive
// substring match across name, symbol, isin and sector (sector only when
// present), then a type filter unless typ is "all" or empty. The query is
// not trimmed: a whitespace-only query is an ordinary substring filter.
// Order is preserved from the underlying collection; there is no ranking.
func (s *Store) SearchTokens(query string, typ domain.TokenType) []*domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)

	var result []*domain.Token
	for _, t := range s.tokens {
		if !t.IsNSEListed {
			continue
		}
		if q != "" && !matchesQuery(t, q) {
			continue
		}
		if typ != "" && typ != domain.TokenTypeAll && t.Type != typ {
			continue
		}
		c := copyToken(t)
		result = append(result, &c)
	}
	return result
}

func matchesQuery(t *domain.Token, q string) bool {
	if strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Symbol), q) ||
		strings.Contains(strings.ToLower(t.ISIN), q) {
		return true
	}
	return t.Sector != "" && strings.Contains(strings.ToLower(t.Sector), q)
}

// findToken returns the live token record, or nil. Caller must hold a lock.
func (s *Store) findToken(tokenID string) *domain.Token {
	for _, t := range s.tokens {
		if t.ID == tokenID {
			return t
		}
	}
	return nil
}

// copyToken returns a deep copy so callers can never mutate ledger state.
func copyToken(t *domain.Token) domain.Token {
	c := *t
	if t.Chart7d != nil {
		c.Chart7d = make([]float64, len(t.Chart7d))
		copy(c.Chart7d, t.Chart7d)
	}
	return c
}

func flatChart(price float64) []float64 {
	chart := make([]float64, domain.ChartLen)
	for i := range chart {
		chart[i] = price
	}
	return chart
}
