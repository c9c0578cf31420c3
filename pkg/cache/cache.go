// Package cache provides pluggable byte caching for composed graphs and
// rendered artifacts.
//
// Three backends cover the deployment targets: [FileCache] for the CLI
// (XDG cache directory), [RedisCache] for the service, and [NullCache]
// to disable caching entirely. Keys are derived through a [Keyer] so
// backends stay interchangeable.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface all backends implement. Get reports a
// miss with (nil, false, nil); errors are reserved for backend faults.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per artifact class. Composed graphs are cheap to rebuild
// but invalidate only when the manifest changes, so they keep for a
// day; rasterized artifacts are the expensive part and keep for a week.
const (
	GraphTTL    = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// GraphKeyOpts captures every input that changes composition output.
type GraphKeyOpts struct {
	Pattern         string
	IncludeOptional bool
}

// ArtifactKeyOpts captures every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer generates cache keys. GraphKey is keyed on the canonical
// manifest hash, ArtifactKey on the composed graph hash; any option
// that affects the output is folded into the key.
type Keyer interface {
	GraphKey(manifestHash string, opts GraphKeyOpts) string
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the identifying components into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a composed graph.
func (k *DefaultKeyer) GraphKey(manifestHash string, opts GraphKeyOpts) string {
	return hashKey("graph", manifestHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
