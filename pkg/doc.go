// Package pkg provides the core libraries for Metromap pipeline visualization.
//
// # Overview
//
// Metromap lays out pipeline-shaped DAGs as metro maps: stations connected
// by colored lines, grouped into sections placed on a serpentine grid, with
// edges routed as straight runs, diagonals, and concentric corners. The pkg
// directory is organized into five main areas:
//
//  1. [metro] - Graph model (lines, stations, edges, sections, ports, junctions)
//  2. [layout] - Layer/track assignment, grid inference, section placement
//  3. [layout/route] - Bundle offsets, reversal detection, edge routing
//  4. [pipeline] - Orchestration (validate → infer → layout → route)
//  5. [io] - Graph import and layout export (JSON)
//
// # Architecture
//
// The typical data flow through Metromap:
//
//	Graph JSON (lines, stations, edges, sections, ports)
//	         ↓
//	    [metro] package (model + structural validation)
//	         ↓
//	    [layout] package (layers, tracks, section grid, placement)
//	         ↓
//	    [layout/route] package (line offsets + routed polylines)
//	         ↓
//	    Layout JSON (renderer contract)
//
// # Quick Start
//
// Lay out a graph and export the result:
//
//	import (
//	    "context"
//	    metroio "github.com/matzehuels/metromap/pkg/io"
//	    "github.com/matzehuels/metromap/pkg/pipeline"
//	)
//
//	// 1. Import the graph description
//	g, _ := metroio.ImportJSON("pipeline.json")
//
//	// 2. Run the layout pipeline
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Layout(context.Background(), g, pipeline.Options{})
//
//	// 3. Export the renderer contract
//	_ = metroio.ExportJSON(result.Layout, "layout.json")
//
// # Main Packages
//
// ## Graph Model
//
// [metro] - The mutable graph threaded through every stage. Preserves
// insertion order for stations and sections and declaration order for
// lines, so layout output is deterministic for a given input.
//
// ## Layout Engine
//
// [layout] - Longest-path layer assignment, track-per-line vertical
// ordering, section grid inference with serpentine folding, independent
// per-section layout, grid placement, and port positioning.
//
// [layout/route] - Edge routing on top of the placed geometry:
//
//   - Per-line bundle offsets so parallel lines keep their spacing
//   - Reversed section detection for right-to-left line flow
//   - Polyline construction with concentric corner radii
//
// ## Orchestration
//
// [pipeline] - Complete layout pipeline (validate → infer → layout →
// route) with options, TOML config loading, result caching, and
// observability hooks. Used by every entry point so behavior stays
// consistent.
//
// ## Serialization
//
// [io] - JSON import of graph descriptions and export of the layout
// renderer contract. [io.MarshalGraph] is stable across an import round
// trip and feeds cache keys.
//
// ## Infrastructure
//
// [cache] - Layout result caching behind a small interface. FileCache for
// persistent runs, NullCache for testing, scoped wrappers for key
// namespacing.
//
// [errors] - Coded errors shared across packages, plus input validation
// helpers for identifiers and colors.
//
// [observability] - Pluggable hooks for pipeline stages and cache events.
//
// # Common Workflows
//
// Load options from a TOML file:
//
//	opts, _ := pipeline.LoadOptions("metromap.toml")
//	result, _ := runner.Layout(ctx, g, opts)
//
// Cache layouts across runs:
//
//	c, _ := cache.NewFileCache("~/.cache/metromap")
//	runner := pipeline.NewRunner(c, cache.NewDefaultKeyer(), logger)
//
// Build a graph programmatically:
//
//	g := metro.NewGraph()
//	_ = g.AddLine(metro.Line{ID: "orders", Color: "#e91e63"})
//	_ = g.AddStation(metro.Station{ID: "extract"})
//	_ = g.AddStation(metro.Station{ID: "load"})
//	_ = g.AddEdge(metro.Edge{Source: "extract", Target: "load", LineID: "orders"})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/layout/...        # Layout engine + routing
//	go test -run TestRouteEdges ./pkg/layout/route  # Routing only
//
// [metro]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/metro
// [layout]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/layout
// [layout/route]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/layout/route
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/io
// [io.MarshalGraph]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/io#MarshalGraph
// [cache]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/metromap/pkg/observability
package pkg
