package ports

import "context"

// SealRegistry records which dates are sealed. Seal must behave as a
// compare-and-swap: of two concurrent attempts for the same date, exactly one
// returns true.
type SealRegistry interface {
	Seal(ctx context.Context, date string) (bool, error)
	IsSealed(ctx context.Context, date string) (bool, error)
	// Release undoes a seal that could not be persisted. Best effort.
	Release(ctx context.Context, date string) error
}
