// Package io provides JSON import of metro graphs and JSON export of
// computed layouts.
//
// # Overview
//
// This package covers the two serialization boundaries of the layout
// engine:
//
//   - Import: read a graph description (lines, stations, edges, sections,
//     ports, junctions) into a [metro.MetroGraph] ready for layout.
//   - Export: write the renderer contract (station coordinates, section
//     bounding boxes, routed polylines, bundle offsets) as JSON.
//
// # Graph Format
//
// The import format mirrors the graph model:
//
//	{
//	  "title": "demo",
//	  "lines": [{"id": "main", "color": "#e91e63"}],
//	  "stations": [{"id": "a", "label": "Align"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b", "line": "main"}],
//	  "sections": [{"id": "s1", "name": "QC", "stations": ["a", "b"]}],
//	  "ports": [{"id": "s1_out", "section": "s1", "side": "right",
//	             "lines": ["main"]}],
//	  "junctions": []
//	}
//
// Section fields "direction" (LR/RL/TB) and "col"/"row"/"row_span"/
// "col_span" are optional; when present they pin the section against
// automatic inference. Ports default to exit; set "entry": true for
// entry ports.
//
// # Layout Format
//
// The export contains four arrays: stations with (x, y, layer, track),
// sections with bbox and grid data, paths as waypoint polylines tagged
// with their line id and optional corner radii, and per-(station, line)
// bundle offsets. [MarshalLayout] and [UnmarshalLayout] round-trip this
// structure, which is also what the layout cache stores.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the
// same graph, but not with concurrent modifications. Imported graphs are
// independent instances.
package io
