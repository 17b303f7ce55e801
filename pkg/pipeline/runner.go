package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/metromap/pkg/cache"
	metroio "github.com/matzehuels/metromap/pkg/io"
	"github.com/matzehuels/metromap/pkg/metro"
	"github.com/matzehuels/metromap/pkg/observability"
)

// Runner encapsulates layout execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options, as long as they don't share a graph.
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

// Layout runs the complete validate → infer → layout → offsets → route
// pipeline with caching. On a cache hit the graph is left untouched and
// Result.Layout carries the cached geometry.
func (r *Runner) Layout(ctx context.Context, g *metro.MetroGraph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Graph: g,
		Stats: Stats{
			StationCount: g.StationCount(),
			EdgeCount:    len(g.Edges()),
			SectionCount: g.SectionCount(),
		},
	}

	// Compute the graph hash for the cache key and API responses.
	graphData, err := metroio.MarshalGraph(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph: %w", err)
	}
	result.GraphHash = cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(result.GraphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := metroio.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				result.Layout = cached
				result.CacheInfo.LayoutHit = true
				opts.Logger.Info("layout cache hit", "stations", result.Stats.StationCount)
				return result, nil
			}
			// Fall through to recompute on deserialization failure.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	layoutStart := time.Now()
	if err := r.runStage(ctx, "validate", g, func() error { return g.Validate() }); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if err := r.runStage(ctx, "layout", g, func() error { return computeLayout(g, opts) }); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"stations", result.Stats.StationCount,
		"sections", result.Stats.SectionCount,
		"duration", result.Stats.LayoutTime)

	routeStart := time.Now()
	if err := r.runStage(ctx, "route", g, func() error {
		result.Offsets, result.Paths = computeRoutes(g)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.Stats.RouteTime = time.Since(routeStart)

	opts.Logger.Info("routed edges",
		"paths", len(result.Paths),
		"duration", result.Stats.RouteTime)

	result.Layout = metroio.BuildLayout(g, result.Paths, result.Offsets)

	// Cache the result
	if !opts.Refresh {
		if data, err := metroio.MarshalLayout(result.Layout); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}

	return result, nil
}

// runStage wraps one pipeline stage with observability hooks.
func (r *Runner) runStage(ctx context.Context, stage string, g *metro.MetroGraph, fn func() error) error {
	observability.Layout().OnStageStart(ctx, stage, g.StationCount())
	start := time.Now()
	err := fn()
	observability.Layout().OnStageComplete(ctx, stage, time.Since(start), err)
	return err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
