// Package pipeline provides the layout pipeline entry point.
//
// This package ties the layout stages together behind one API that CLI
// and service front ends can share. Centralizing the stage order and
// caching keeps behavior identical across entry points.
//
// # Architecture
//
// A run consists of five stages over one graph:
//
//  1. Validate: structural checks on the input graph
//  2. Infer: line reordering, section grid, directions, port sides
//  3. Layout: station coordinates, section bboxes, port positions
//  4. Offsets: per-(station, line) bundle offsets and reversal detection
//  5. Route: every edge converted to a waypoint polyline
//
// The whole run is deterministic, so results are cached under a hash of
// the serialized graph plus the layout options.
//
// # Usage
//
// Create a Runner and lay out a graph:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{}
//	result, err := runner.Layout(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.ExportJSON(result.Layout, "layout.json")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/metromap/pkg/cache"
	apperrors "github.com/matzehuels/metromap/pkg/errors"
	metroio "github.com/matzehuels/metromap/pkg/io"
	"github.com/matzehuels/metromap/pkg/layout"
	"github.com/matzehuels/metromap/pkg/layout/route"
	"github.com/matzehuels/metromap/pkg/metro"
)

// Options contains all configuration for a layout run.
// The struct supports TOML and JSON serialization for config files and
// API requests; zero values mean "use the default".
type Options struct {
	// Spacing options
	XSpacing float64 `json:"x_spacing,omitempty" toml:"x_spacing"`
	YSpacing float64 `json:"y_spacing,omitempty" toml:"y_spacing"`
	XOffset  float64 `json:"x_offset,omitempty" toml:"x_offset"`
	YOffset  float64 `json:"y_offset,omitempty" toml:"y_offset"`

	// Section sizing options
	SectionXPadding float64 `json:"section_x_padding,omitempty" toml:"section_x_padding"`
	SectionYPadding float64 `json:"section_y_padding,omitempty" toml:"section_y_padding"`
	SectionXGap     float64 `json:"section_x_gap,omitempty" toml:"section_x_gap"`
	SectionYGap     float64 `json:"section_y_gap,omitempty" toml:"section_y_gap"`

	// MaxStationColumns is the grid width before the section layout
	// folds into a new row band. 0 means automatic: no fold for
	// diagrams under 10 layers, otherwise half the total layer count,
	// targeting a roughly 2:1 aspect ratio.
	MaxStationColumns int `json:"max_station_columns,omitempty" toml:"max_station_columns"`

	// OrderLinesBySpan reorders line priority by descending section
	// span before track assignment, so long-running lines claim the
	// upper tracks.
	OrderLinesBySpan bool `json:"order_lines_by_span,omitempty" toml:"order_lines_by_span"`

	// Refresh bypasses the layout cache for this run.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a layout run.
type Result struct {
	// Graph is the input graph. On a cache miss it carries the computed
	// coordinates; on a hit it is returned unmodified and Layout holds
	// the cached geometry.
	Graph *metro.MetroGraph

	// GraphHash is the content hash of the serialized input graph.
	GraphHash string

	// Layout is the serializable renderer contract.
	Layout metroio.Layout

	// Paths are the routed polylines (empty on a cache hit; use Layout).
	Paths []route.RoutedPath

	// Offsets is the bundle offset table (empty on a cache hit).
	Offsets route.Offsets

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the run hit the cache.
	CacheInfo CacheInfo
}

// Stats contains layout run statistics.
type Stats struct {
	StationCount int
	EdgeCount    int
	SectionCount int
	LayoutTime   time.Duration
	RouteTime    time.Duration
}

// CacheInfo tracks cache hits for the run.
type CacheInfo struct {
	LayoutHit bool // Whether the layout result came from cache
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.XSpacing < 0 || o.YSpacing < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "spacing must not be negative")
	}
	if o.MaxStationColumns < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "max_station_columns must not be negative")
	}
	o.setDefaults()
	o.validated = true
	return nil
}

func (o *Options) setDefaults() {
	if o.XSpacing == 0 {
		o.XSpacing = layout.XSpacing
	}
	if o.YSpacing == 0 {
		o.YSpacing = layout.YSpacing
	}
	if o.XOffset == 0 {
		o.XOffset = layout.XOffset
	}
	if o.YOffset == 0 {
		o.YOffset = layout.YOffset
	}
	if o.SectionXPadding == 0 {
		o.SectionXPadding = layout.SectionXPadding
	}
	if o.SectionYPadding == 0 {
		o.SectionYPadding = layout.SectionYPadding
	}
	if o.SectionXGap == 0 {
		o.SectionXGap = layout.SectionXGap
	}
	if o.SectionYGap == 0 {
		o.SectionYGap = layout.SectionYGap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for this configuration.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		XSpacing:          o.XSpacing,
		YSpacing:          o.YSpacing,
		XOffset:           o.XOffset,
		YOffset:           o.YOffset,
		SectionXPadding:   o.SectionXPadding,
		SectionYPadding:   o.SectionYPadding,
		SectionXGap:       o.SectionXGap,
		SectionYGap:       o.SectionYGap,
		MaxStationColumns: o.MaxStationColumns,
		OrderLinesBySpan:  o.OrderLinesBySpan,
	}
}

// engineConfig converts the options to the layout engine configuration.
func (o *Options) engineConfig() layout.Config {
	return layout.Config{
		XSpacing:        o.XSpacing,
		YSpacing:        o.YSpacing,
		XOffset:         o.XOffset,
		YOffset:         o.YOffset,
		SectionXPadding: o.SectionXPadding,
		SectionYPadding: o.SectionYPadding,
		SectionXGap:     o.SectionXGap,
		SectionYGap:     o.SectionYGap,
	}
}
