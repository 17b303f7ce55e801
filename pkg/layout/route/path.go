// Package route converts positioned metro graphs into drawable
// polylines: per-line bundle offsets, reversed-section detection,
// concentric corner radii, and the waypoint geometry for every edge.
package route

import "github.com/matzehuels/metromap/pkg/metro"

// Point is a 2D waypoint.
type Point struct {
	X float64
	Y float64
}

// RoutedPath is the drawable geometry of one edge: waypoints in draw
// order plus an optional per-corner radius list.
type RoutedPath struct {
	Edge           metro.Edge
	LineID         string
	Points         []Point
	IsInterSection bool
	// CurveRadii holds one radius per interior waypoint. Nil means the
	// renderer applies its default radius everywhere.
	CurveRadii []float64
	// OffsetsApplied marks paths whose waypoints already include the
	// per-line bundle offset.
	OffsetsApplied bool
}

// edgeKey identifies one routed edge instance.
type edgeKey struct {
	source string
	target string
	lineID string
}

// stationLine keys the per-station, per-line offset table.
type stationLine struct {
	stationID string
	lineID    string
}
