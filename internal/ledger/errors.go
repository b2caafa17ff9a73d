package ledger

import "errors"

// Ledger errors. Preconditions are checked before any mutation, so an
// operation that returns one of these has had no effect on the collections.
var (
	// ErrTokenNotFound is returned when a referenced token id does not exist.
	ErrTokenNotFound = errors.New("token not found")

	// ErrInsufficientSupply is returned when a trade amount exceeds the
	// token's available supply.
	ErrInsufficientSupply = errors.New("insufficient available supply")

	// ErrInvalidTrade is returned when a trade spec fails validation
	// (non-positive amount or unknown trade type).
	ErrInvalidTrade = errors.New("invalid trade")
)
