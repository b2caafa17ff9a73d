package storage

import (
	"context"

	"assetra/internal/domain"
)

// Ledger blob keys. Each holds the JSON-serialized array form of the
// respective collection.
const (
	KeyTokens = "tokens"
	KeyTrades = "trades"
)

// BlobStore is the persistence boundary of the ledger: a string-keyed blob
// store written whole-collection at a time. The ledger reads at startup and
// writes after every mutation; incremental updates are not part of the
// contract.
type BlobStore interface {
	// Get retrieves the blob stored under key. Returns ErrNotFound if the
	// key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error
}

// TradeArchive is an append-only settlement tape. It is an audit sink:
// the ledger never reads it back and archive failures must not affect
// ledger state.
type TradeArchive interface {
	// Append records settled trades on the tape.
	Append(ctx context.Context, trades []*domain.Trade) error
}
