package pipeline

import (
	"math"

	"github.com/matzehuels/metromap/pkg/layout"
	"github.com/matzehuels/metromap/pkg/layout/route"
	"github.com/matzehuels/metromap/pkg/metro"
)

// computeLayout runs the geometric stages on the graph in place:
// inference, placement, and coordinate assignment. The graph must
// already be validated.
func computeLayout(g *metro.MetroGraph, opts Options) error {
	if opts.OrderLinesBySpan {
		layout.ReorderLinesBySpan(g)
	}

	maxCols := opts.MaxStationColumns
	if maxCols == 0 {
		maxCols = autoMaxColumns(g)
	}
	layout.InferSectionLayout(g, maxCols)

	return layout.ComputeLayout(g, opts.engineConfig())
}

// computeRoutes runs the offset and routing stages on a positioned
// graph.
func computeRoutes(g *metro.MetroGraph) (route.Offsets, []route.RoutedPath) {
	offsets := route.ComputeStationOffsets(g, layout.OffsetStep)
	paths := route.RouteEdges(g, layout.DiagonalRun, layout.CurveRadius, offsets)
	return offsets, paths
}

// autoMaxColumns picks the grid width for automatic folding. Short
// diagrams stay on one row; longer ones fold at half their layer
// count, which targets a roughly 2:1 aspect ratio.
func autoMaxColumns(g *metro.MetroGraph) int {
	layers, err := layout.AssignLayers(g)
	if err != nil {
		// Cycles are reported by the layout stage proper.
		return layout.MinLayersForFold
	}
	total := 0
	for _, l := range layers {
		if l+1 > total {
			total = l + 1
		}
	}
	if total < layout.MinLayersForFold {
		if total < 1 {
			return 1
		}
		return total
	}
	return int(math.Ceil(float64(total) / 2))
}
