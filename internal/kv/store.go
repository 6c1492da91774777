package kv

import "context"

// Store is the persisted key-value boundary for desk-local state (the payment
// overlay and the issuance ledger). It is interface-driven to keep the domain
// logic testable and to allow swapping in-memory and redis persistence without
// rewiring business code. Values are opaque JSON blobs owned by the caller.
type Store interface {
	// Get returns the value for key, or sentinel.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
