// Package layout turns an abstract metro graph into geometry: layers,
// tracks, section grids, pixel positions, and bounding boxes. The routing
// subpackage then converts that geometry into drawable polylines.
//
// Stages run in a fixed order (layers, tracks, section inference, section
// placement, port positioning) and each stage is deterministic: identical
// input graphs always produce identical coordinates.
package layout

import (
	"fmt"

	apperrors "github.com/matzehuels/metromap/pkg/errors"
	"github.com/matzehuels/metromap/pkg/metro"
)

// cycleError records a station known to sit on a directed cycle.
type cycleError struct {
	node string
}

func (e *cycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle through station %q", e.node)
}

// AssignLayers assigns each station a layer (integer X position) using
// longest-path layering: a node's layer is one past the maximum layer of
// its predecessors, so every edge points from a lower layer to a higher
// one and nodes spread out to fill the available width. Isolated stations
// land on layer 0.
//
// Returns a GRAPH_CYCLE error naming a station on the cycle when the
// graph is not a DAG.
func AssignLayers(g *metro.MetroGraph) (map[string]int, error) {
	d := buildDigraph(g)

	order, err := d.topoSort()
	if err != nil {
		if ce, ok := err.(*cycleError); ok {
			return nil, apperrors.Wrap(apperrors.ErrCodeGraphCycle, err, "cannot layer station %q", ce.node)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeGraphCycle, err, "cannot layer graph")
	}

	layers := make(map[string]int, len(order))
	for _, node := range order {
		layer := 0
		for _, p := range d.predecessors(node) {
			if layers[p]+1 > layer {
				layer = layers[p] + 1
			}
		}
		layers[node] = layer
	}
	return layers, nil
}

// maxLayer returns the highest assigned layer, or 0 for an empty map.
func maxLayer(layers map[string]int) int {
	max := 0
	for _, l := range layers {
		if l > max {
			max = l
		}
	}
	return max
}
