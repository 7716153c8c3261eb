// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors for the borrow/return and feed workflows. Handlers map
// these onto HTTP statuses and notices; services wrap them with context
// using fmt.Errorf and %w.
var (
	// ErrScopeNotReady means the caller's session scope is not resolved
	// yet. Scoped operations are deferred, not failed loudly.
	ErrScopeNotReady = errors.New("session scope not ready")

	// ErrNotFound means the requested entity does not exist in the
	// caller's tenant.
	ErrNotFound = errors.New("not found")

	// ErrOutOfStock means every unit of the item is currently borrowed.
	// Also returned when a concurrent borrow takes the last unit first.
	ErrOutOfStock = errors.New("item out of stock")

	// ErrNotBorrowable means the borrow record is not in a state the
	// caller can return: already returned, or owned by someone else.
	ErrNotBorrowable = errors.New("record not eligible for return")

	// ErrItemGone marks a referential gap: the borrow record's item was
	// deleted from inventory. The return itself still succeeds.
	ErrItemGone = errors.New("original item no longer in inventory")

	// ErrTipUnavailable means the tip generator failed for a reason that
	// is not worth retrying.
	ErrTipUnavailable = errors.New("tip generator unavailable")

	// ErrTipRetriesExhausted means the tip generator kept rate-limiting
	// until the retry budget ran out.
	ErrTipRetriesExhausted = errors.New("tip generator retries exhausted")
)
