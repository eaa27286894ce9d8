package cache

import "context"

// Store is the explicit roster cache. The export pipeline must produce
// identical results whether or not a Store is plugged in; it only skips
// directory round trips for repeated identical requests.
type Store interface {
	// Get returns the cached payload for key, if present and fresh.
	Get(ctx context.Context, key Key) ([]byte, bool)
	// Set stores a payload under key for the store's TTL.
	Set(ctx context.Context, key Key, payload []byte) error
	// InvalidateToken drops every entry belonging to a token fingerprint.
	InvalidateToken(ctx context.Context, fingerprint string) error
}
