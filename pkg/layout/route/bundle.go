package route

import (
	"math"
	"sort"

	"github.com/matzehuels/metromap/pkg/layout"
	"github.com/matzehuels/metromap/pkg/metro"
)

// bundleSlot is a line's position within a corridor bundle.
type bundleSlot struct {
	index int
	count int
}

// interEdge pairs an inter-section edge with its endpoint geometry.
type interEdge struct {
	edge           metro.Edge
	sx, sy, tx, ty float64
}

// corridorKey groups inter-section edges sharing a vertical channel:
// vertical runs by rounded shared X and vertical direction, L-shapes by
// rounded source X and both directions. The source X keys L-shapes
// because the vertical channel sits in the inter-column gap near the
// source; a midpoint key would split junction fan-outs that share one
// channel.
type corridorKey struct {
	shape string
	x     int
	vDir  int
	hDir  int
}

// computeBundleInfo assigns consistent per-line slots to inter-section
// edges sharing a geometric corridor, so parallel lines keep their
// spacing instead of overlapping on the same X.
//
// Within a corridor the slot order follows spatial position: bundles
// leaving a bottom-exit junction put the deepest drop outermost,
// bundles leaving an exit port follow the feeding internal station's Y,
// and fan-ins from different sources follow source Y. Line priority
// breaks ties.
func computeBundleInfo(g *metro.MetroGraph, linePriority map[string]int, bottomExitJunctions map[string]bool) map[edgeKey]bundleSlot {
	var interEdges []interEdge
	for _, e := range g.Edges() {
		src, tgt := g.Station(e.Source), g.Station(e.Target)
		if src == nil || tgt == nil {
			continue
		}
		srcInter := src.IsPort || g.IsJunction(e.Source)
		tgtInter := tgt.IsPort || g.IsJunction(e.Target)
		if !srcInter || !tgtInter {
			continue
		}
		interEdges = append(interEdges, interEdge{e, src.X, src.Y, tgt.X, tgt.Y})
	}

	corridors := make(map[corridorKey][]interEdge)
	var keys []corridorKey
	for _, ie := range interEdges {
		dx := ie.tx - ie.sx
		dy := ie.ty - ie.sy
		if math.Abs(dy) < layout.CoordToleranceFine {
			continue // horizontal edges don't need bundling
		}
		vDir := 1
		if dy < 0 {
			vDir = -1
		}
		var key corridorKey
		if math.Abs(dx) < layout.CoordTolerance {
			key = corridorKey{shape: "V", x: int(math.Round(ie.sx)), vDir: vDir}
		} else {
			hDir := 1
			if dx < 0 {
				hDir = -1
			}
			key = corridorKey{shape: "L", x: int(math.Round(ie.sx)), vDir: vDir, hDir: hDir}
		}
		if _, ok := corridors[key]; !ok {
			keys = append(keys, key)
		}
		corridors[key] = append(corridors[key], ie)
	}

	prio := func(lid string) int {
		if p, ok := linePriority[lid]; ok {
			return p
		}
		return 999
	}

	assignments := make(map[edgeKey]bundleSlot)
	for _, key := range keys {
		group := corridors[key]

		singleSource := true
		for _, ie := range group[1:] {
			if ie.edge.Source != group[0].edge.Source {
				singleSource = false
				break
			}
		}

		if singleSource {
			exitPortID := group[0].edge.Source
			port := g.Port(exitPortID)
			switch {
			case bottomExitJunctions[exitPortID]:
				// Vertical-first fan-out: deepest target outermost so
				// corners don't cross.
				sort.SliceStable(group, func(i, j int) bool {
					if group[i].ty != group[j].ty {
						return group[i].ty > group[j].ty
					}
					return prio(group[i].edge.LineID) < prio(group[j].edge.LineID)
				})
			case port != nil && !port.IsEntry:
				sourceY := lineSourceYAtPort(exitPortID, g)
				sort.SliceStable(group, func(i, j int) bool {
					yi, yj := sourceY[group[i].edge.LineID], sourceY[group[j].edge.LineID]
					if yi != yj {
						return yi < yj
					}
					return prio(group[i].edge.LineID) < prio(group[j].edge.LineID)
				})
			default:
				sort.SliceStable(group, func(i, j int) bool {
					return prio(group[i].edge.LineID) < prio(group[j].edge.LineID)
				})
			}
		} else {
			// Fan-in from different source ports: source Y preserves
			// the spatial ordering around the corner.
			sort.SliceStable(group, func(i, j int) bool {
				if group[i].sy != group[j].sy {
					return group[i].sy < group[j].sy
				}
				return prio(group[i].edge.LineID) < prio(group[j].edge.LineID)
			})
		}

		n := len(group)
		for i, ie := range group {
			assignments[edgeKey{ie.edge.Source, ie.edge.Target, ie.edge.LineID}] = bundleSlot{i, n}
		}
	}

	return assignments
}

// interColumnChannelX places the vertical channel of an L-shaped route
// in the gap between the source and target grid columns, clear of
// sibling sections stacked in either column. Falls back to a
// near-source position when section info is missing.
func interColumnChannelX(g *metro.MetroGraph, src, tgt *metro.Station, sx, tx, dx, maxR, offsetStep float64) float64 {
	var srcSec, tgtSec *metro.Section
	if src.SectionID != "" {
		srcSec = g.Section(src.SectionID)
	}
	if tgt.SectionID != "" {
		tgtSec = g.Section(tgt.SectionID)
	}

	if srcSec != nil && tgtSec != nil && srcSec.GridCol != tgtSec.GridCol {
		if dx > 0 {
			colRight := columnRightEdge(g, srcSec.GridCol, sx)
			colLeft := columnLeftEdge(g, tgtSec.GridCol, tx)
			return (colRight + colLeft) / 2
		}
		colLeft := columnLeftEdge(g, srcSec.GridCol, sx)
		colRight := columnRightEdge(g, tgtSec.GridCol, tx)
		return (colLeft + colRight) / 2
	}

	if dx > 0 {
		return sx + maxR + offsetStep
	}
	return sx - maxR - offsetStep
}

func columnRightEdge(g *metro.MetroGraph, col int, fallback float64) float64 {
	edge, found := fallback, false
	for _, s := range g.Sections() {
		if s.GridCol == col && s.BboxW > 0 {
			if right := s.BboxX + s.BboxW; !found || right > edge {
				edge, found = right, true
			}
		}
	}
	return edge
}

func columnLeftEdge(g *metro.MetroGraph, col int, fallback float64) float64 {
	edge, found := fallback, false
	for _, s := range g.Sections() {
		if s.GridCol == col && s.BboxW > 0 {
			if !found || s.BboxX < edge {
				edge, found = s.BboxX, true
			}
		}
	}
	return edge
}

// lineSourceYAtPort maps each line to the Y of the internal station
// feeding an exit port.
func lineSourceYAtPort(portID string, g *metro.MetroGraph) map[string]float64 {
	lineY := make(map[string]float64)
	for _, e := range g.Edges() {
		if e.Target != portID {
			continue
		}
		if src := g.Station(e.Source); src != nil && !src.IsPort {
			lineY[e.LineID] = src.Y
		}
	}
	return lineY
}
