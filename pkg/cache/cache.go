// Package cache stores laid out molecules and rendered artifacts.
//
// Layouts are the expensive part of a render: ring perception, the
// Kamada–Kawai pass for bridged systems and overlap resolution all run on
// every miss. Artifacts are cheap by comparison but are cached too so the
// HTTP server can hand out stored renders by id.
//
// Four backends implement [Cache]:
//
//   - [FileCache]: JSON entries on disk, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: TTL documents in a MongoDB collection
//   - [NullCache]: caching disabled
//
// [Open] picks one from a [Config]. Keys are built by a [Keyer] so the same
// molecule and options always land on the same entry.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached entry kinds.
const (
	// TTLLayout is long: a layout depends only on the SMILES and options.
	TTLLayout = 30 * 24 * time.Hour

	// TTLArtifact covers rendered SVG/PNG/PDF/DOT output.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLRender bounds how long a stored render stays fetchable by id.
	TTLRender = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
