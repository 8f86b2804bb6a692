// Package repo contains all persistence logic for the travel companion.
// Every collection lives as one JSON document under one fixed key of a
// key-value store; the KV interface is the only thing backends implement.
// No business logic lives here, only storage and the per-key
// ordering of read-modify-write cycles.
package repo

import "context"

// Storage keys. These names are shared with data already written on devices
// and must be preserved exactly.
const (
	// KeyUser holds the redacted projection of the signed-in user.
	KeyUser = "user"
	// KeySession holds the full user roster, passwords included.
	KeySession     = "session"
	KeyTrips       = "trips"
	KeyMarketplace = "marketplace_items"
	KeyFeedPosts   = "feed_posts"
	KeyEvents      = "events"
	KeyFeedback    = "feedback"
)

// KV is a durable get/set/remove store of JSON-encoded values by string key.
// Any method may fail; callers wrap failures as domain.ErrStoreFailure.
type KV interface {
	// Get returns the raw JSON stored under key.
	// Returns domain.ErrNotFound if the key holds no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
