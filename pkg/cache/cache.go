// Package cache provides layout-result caching keyed by content hashes.
//
// Layout computation is deterministic, so a result can be reused whenever
// the same graph is laid out with the same options. Keys are derived from
// a SHA-256 hash of the serialized graph plus the layout options, which
// makes entries self-invalidating: any change to the input produces a new
// key.
//
// Two implementations are provided: FileCache for persistent CLI usage
// and NullCache to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLLayout is the default lifetime of cached layout results. Layouts
// are pure functions of their inputs, so the TTL exists only to bound
// disk usage.
const TTLLayout = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was found; an expired entry counts as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration; a negative
	// ttl stores the entry already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKeyOpts are the option fields that affect layout output and
// therefore participate in the cache key.
type LayoutKeyOpts struct {
	XSpacing          float64
	YSpacing          float64
	XOffset           float64
	YOffset           float64
	SectionXPadding   float64
	SectionYPadding   float64
	SectionXGap       float64
	SectionYGap       float64
	MaxStationColumns int
	OrderLinesBySpan  bool
}

// Keyer generates cache keys from content hashes and options.
type Keyer interface {
	// LayoutKey generates a key for a layout result given the hash of
	// the serialized input graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key of the form "layout:<sha256>".
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
