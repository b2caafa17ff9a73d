package clickhouse

import (
	"context"
	"fmt"

	"assetra/internal/domain"
	"assetra/internal/storage"
)

// TradeTapeStore implements storage.TradeArchive using ClickHouse. Settled
// trades are appended to the trade_tape MergeTree table for audit queries;
// the ledger itself never reads from the tape.
type TradeTapeStore struct {
	conn *Conn
}

// NewTradeTapeStore creates a new TradeTapeStore.
func NewTradeTapeStore(conn *Conn) *TradeTapeStore {
	return &TradeTapeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeArchive = (*TradeTapeStore)(nil)

// Append records settled trades on the tape.
func (s *TradeTapeStore) Append(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_tape (
			trade_id, token_id, trade_type, amount, price, buyer, seller, traded_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		if t == nil || t.ID == "" {
			return storage.ErrInvalidInput
		}
		err := batch.Append(
			t.ID,
			t.TokenID,
			string(t.Type),
			t.Amount,
			t.Price,
			t.Buyer,
			t.Seller,
			t.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("append trade %s: %w", t.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTokenID retrieves archived trades for a token, ordered by trade time
// ascending. Audit use only.
func (s *TradeTapeStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.Trade, error) {
	query := `
		SELECT trade_id, token_id, trade_type, amount, price, buyer, seller, traded_at
		FROM trade_tape
		WHERE token_id = ?
		ORDER BY traded_at ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query trade tape: %w", err)
	}
	defer rows.Close()

	var result []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var tradeType string
		err := rows.Scan(
			&t.ID, &t.TokenID, &tradeType, &t.Amount, &t.Price,
			&t.Buyer, &t.Seller, &t.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Type = domain.TradeType(tradeType)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade tape: %w", err)
	}

	return result, nil
}
