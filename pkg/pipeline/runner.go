package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smilesdraw/pkg/cache"
	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
	keyTypeRender   = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1+2: Parse and layout
	l, hit, err := r.parseAndLayout(ctx, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.CacheInfo.LayoutHit = hit
	result.Stats.Atoms = len(l.Atoms)
	result.Stats.Bonds = len(l.Bonds)
	result.Stats.Rings = len(l.Rings)

	hash, err := LayoutHash(l)
	if err != nil {
		return nil, err
	}
	result.LayoutHash = hash

	opts.Logger.Info("computed layout",
		"formula", l.Formula,
		"atoms", result.Stats.Atoms,
		"rings", result.Stats.Rings,
		"cached", hit,
		"duration", result.Stats.ParseTime+result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Layout
// =============================================================================

// ParseAndLayout returns the layout of opts.SMILES and whether it came from
// the cache.
func (r *Runner) ParseAndLayout(ctx context.Context, opts Options) (graph.Layout, bool, error) {
	return r.parseAndLayout(ctx, opts, &Stats{})
}

func (r *Runner) parseAndLayout(ctx context.Context, opts Options, stats *Stats) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.LayoutKey(opts.SMILES, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, key, keyTypeLayout); ok {
			l, err := graph.UnmarshalLayout(data)
			if err == nil {
				l.Name = opts.Name
				opts.Logger.Debug("layout cache hit", "smiles", opts.SMILES)
				return l, true, nil
			}
			opts.Logger.Warn("discarding unreadable cached layout", "error", err)
		}
	}

	parseStart := time.Now()
	d, err := Parse(ctx, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	stats.ParseTime = time.Since(parseStart)
	opts.Logger.Debug("parsed SMILES",
		"atoms", len(d.Graph().Vertices),
		"rings", d.RingCount(),
		"duration", stats.ParseTime)

	layoutStart := time.Now()
	l, err := LayoutDrawer(ctx, d, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	stats.LayoutTime = time.Since(layoutStart)

	// The cached copy is name-agnostic; the name is reapplied on read.
	stored := l
	stored.Name = ""
	if data, err := graph.MarshalLayout(stored); err == nil {
		r.set(ctx, key, keyTypeLayout, data, cache.TTLLayout)
	}
	return l, false, nil
}

// LayoutHash returns the content hash that keys a layout's artifacts. The
// name is part of it because the JSON and SVG outputs carry it.
func LayoutHash(l graph.Layout) (string, error) {
	data, err := graph.MarshalLayout(l)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, err, "hash layout")
	}
	return cache.Hash(data), nil
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders every format in opts.Formats, reading and
// writing each artifact through the cache. The hit flag is true only if no
// format had to be rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash, err := LayoutHash(l)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		keys[format] = key
		if !opts.Refresh {
			if data, ok := r.get(ctx, key, keyTypeArtifact); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := renderFormats(ctx, l, opts, missing)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.set(ctx, keys[format], keyTypeArtifact, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// =============================================================================
// Stored Renders
// =============================================================================

// StoredRender is a render kept under an id so it can be fetched later.
type StoredRender struct {
	ID        string            `json:"id"`
	SMILES    string            `json:"smiles"`
	Name      string            `json:"name,omitempty"`
	Formula   string            `json:"formula"`
	Rings     int               `json:"rings"`
	Artifacts map[string][]byte `json:"artifacts"`
	CreatedAt time.Time         `json:"created_at"`
}

// StoreRender saves a render under its id.
func (r *Runner) StoreRender(ctx context.Context, s StoredRender) error {
	data, err := json.Marshal(s)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode render")
	}
	if err := r.Cache.Set(ctx, r.Keyer.RenderKey(s.ID), data, cache.TTLRender); err != nil {
		observability.Cache().OnCacheError(ctx, keyTypeRender, err)
		return apperrors.Wrap(apperrors.ErrCodeCacheUnavailable, err, "store render")
	}
	observability.Cache().OnCacheSet(ctx, keyTypeRender, len(data))
	return nil
}

// LoadRender fetches a stored render. A missing or expired id is a
// NOT_FOUND error.
func (r *Runner) LoadRender(ctx context.Context, id string) (StoredRender, error) {
	data, ok, err := r.Cache.Get(ctx, r.Keyer.RenderKey(id))
	if err != nil {
		observability.Cache().OnCacheError(ctx, keyTypeRender, err)
		return StoredRender{}, apperrors.Wrap(apperrors.ErrCodeCacheUnavailable, err, "load render")
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyTypeRender)
		return StoredRender{}, apperrors.New(apperrors.ErrCodeNotFound, "render %q not found", id)
	}
	observability.Cache().OnCacheHit(ctx, keyTypeRender)

	var s StoredRender
	if err := json.Unmarshal(data, &s); err != nil {
		return StoredRender{}, apperrors.Wrap(apperrors.ErrCodeInternal, err, "decode render %q", id)
	}
	return s, nil
}

// =============================================================================
// Helpers
// =============================================================================

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	if err := r.Cache.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}

// get reads a cache entry. Cache errors are logged and treated as misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	case !hit:
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// set writes a cache entry. Failures only cost a future recomputation.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	hooks := observability.Cache()
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	hooks.OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
