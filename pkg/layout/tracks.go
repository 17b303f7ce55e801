package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/metromap/pkg/metro"
)

// AssignTracks assigns each station a track (vertical position in track
// units) using the track-per-line strategy: every line owns a base track
// at its priority index times lineGap, nodes on a line's main path snap
// to that base, and branches stay near their predecessors instead of
// jumping to a distant track.
//
// Within a layer, lines are processed in declaration order; groups with
// several nodes fan out around an anchor; stations with no line stack on
// unique orphan tracks past the last base. After each layer, cross-line
// fork groups are compacted to even spacing.
func AssignTracks(g *metro.MetroGraph, layers map[string]int, lineGap float64) map[string]float64 {
	if lineGap <= 0 {
		lineGap = LineGap
	}
	if g.LineCount() == 0 {
		tracks := make(map[string]float64, g.StationCount())
		for i, sid := range g.StationIDs() {
			tracks[sid] = float64(i)
		}
		return tracks
	}

	d := buildDigraph(g)
	lineOrder := g.LineOrder()
	priority := g.LinePriority()

	// Primary line per node: the lowest-priority line touching it.
	nodePrimary := make(map[string]string, g.StationCount())
	for _, sid := range g.StationIDs() {
		nodeLines := g.StationLines(sid)
		if len(nodeLines) == 0 {
			continue
		}
		best := nodeLines[0]
		for _, lid := range nodeLines[1:] {
			if linePriority(priority, lid) < linePriority(priority, best) {
				best = lid
			}
		}
		nodePrimary[sid] = best
	}

	lineBase := make(map[string]float64, len(lineOrder))
	for i, lid := range lineOrder {
		lineBase[lid] = float64(i) * lineGap
	}

	// Group nodes by (layer, primary line), preserving insertion order
	// inside each group.
	type groupKey struct {
		layer   int
		primary string
	}
	groups := make(map[groupKey][]string)
	for _, sid := range g.StationIDs() {
		groups[groupKey{layers[sid], nodePrimary[sid]}] = append(groups[groupKey{layers[sid], nodePrimary[sid]}], sid)
	}

	tracks := make(map[string]float64, g.StationCount())
	orphanTrack := float64(len(lineOrder)) * lineGap

	top := maxLayer(layers)
	for layer := 0; layer <= top; layer++ {
		for _, lid := range lineOrder {
			nodes := groups[groupKey{layer, lid}]
			if len(nodes) == 0 {
				continue
			}
			base := lineBase[lid]
			if len(nodes) == 1 {
				tracks[nodes[0]] = placeSingleNode(nodes[0], base, lineGap, d, tracks, g, layers)
			} else {
				placeFanOut(nodes, base, lineGap, d, tracks)
			}
		}

		for _, node := range groups[groupKey{layer, ""}] {
			tracks[node] = orphanTrack
			orphanTrack++
		}

		equalizeForkGroups(layer, layers, tracks, d, g, nodePrimary, lineGap)
	}

	return tracks
}

func linePriority(priority map[string]int, lid string) int {
	if p, ok := priority[lid]; ok {
		return p
	}
	return math.MaxInt32
}

// predecessorAvg averages the track positions of already placed
// predecessors. Returns false when none are placed yet.
func predecessorAvg(node string, d *digraph, tracks map[string]float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range d.predecessors(node) {
		if t, ok := tracks[p]; ok {
			sum += t
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// isDiamondNode reports whether the node is one branch of a fork-join
// pattern: another node at the same layer shares its full predecessor
// set, converges to at least one common successor, and carries the same
// line set. Nodes on different lines that happen to share endpoints are
// not diamonds.
func isDiamondNode(node string, layer int, d *digraph, layers map[string]int, g *metro.MetroGraph) bool {
	preds := d.predecessors(node)
	succs := d.successors(node)
	if len(preds) == 0 || len(succs) == 0 {
		return false
	}

	predSet := stringSet(preds)
	succSet := stringSet(succs)
	nodeLines := stringSet(g.StationLines(node))

	for _, other := range g.StationIDs() {
		if other == node || layers[other] != layer {
			continue
		}
		if !sameSet(stringSet(d.predecessors(other)), predSet) {
			continue
		}
		if !intersects(succSet, d.successors(other)) {
			continue
		}
		if sameSet(stringSet(g.StationLines(other)), nodeLines) {
			return true
		}
	}
	return false
}

// placeSingleNode chooses between the line's base track and predecessor
// proximity. Divergence points snap to base so branches fan out, except
// diamonds, which compress toward the trunk. Convergence points snap to
// base so the merged bundle stays compact. Distant side branches stay
// near their predecessors with a nudge toward base.
func placeSingleNode(node string, base, lineGap float64, d *digraph, tracks map[string]float64, g *metro.MetroGraph, layers map[string]int) float64 {
	predAvg, ok := predecessorAvg(node, d, tracks)
	if !ok {
		return base
	}

	preds := d.predecessors(node)
	nodeLines := stringSet(g.StationLines(node))
	predLines := make(map[string]bool)
	for _, p := range preds {
		for _, lid := range g.StationLines(p) {
			predLines[lid] = true
		}
	}
	if len(predLines) > len(nodeLines) {
		if isDiamondNode(node, layers[node], d, layers, g) {
			return predAvg + (base-predAvg)*DiamondCompression
		}
		return base
	}

	// Convergence: the node carries more lines than any single
	// predecessor, so lines are merging here. Snap to base so downstream
	// stations don't zigzag between merged and base positions.
	if len(preds) > 1 {
		maxPredLines := 0
		for _, p := range preds {
			if n := len(g.StationLines(p)); n > maxPredLines {
				maxPredLines = n
			}
		}
		if len(nodeLines) > maxPredLines {
			return base
		}
	}

	if math.Abs(base-predAvg) <= lineGap {
		return base
	}
	if base > predAvg {
		return predAvg + SideBranchNudge
	}
	return predAvg - SideBranchNudge
}

// placeFanOut places several nodes of the same layer and line centered
// around an anchor: the base track when predecessors sit nearby, or the
// predecessor center for fans hanging off a distant branch. Spread is
// sub-linear so large fans don't grow proportionally.
func placeFanOut(nodes []string, base, lineGap float64, d *digraph, tracks map[string]float64) {
	bary := make(map[string]float64, len(nodes))
	var predAvgs []float64
	for _, node := range nodes {
		if avg, ok := predecessorAvg(node, d, tracks); ok {
			bary[node] = avg
			predAvgs = append(predAvgs, avg)
		} else {
			bary[node] = base
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool { return bary[nodes[i]] < bary[nodes[j]] })

	anchor := base
	if len(predAvgs) > 0 {
		sum := 0.0
		for _, a := range predAvgs {
			sum += a
		}
		overall := sum / float64(len(predAvgs))
		if math.Abs(base-overall) > lineGap {
			anchor = overall
		}
	}

	n := len(nodes)
	spacing := FanoutSpacing
	if n > 2 {
		spacing = FanoutSpacing * math.Pow(float64(n-1), 0.8-1)
	}
	for i, node := range nodes {
		tracks[node] = anchor + (float64(i)-float64(n-1)/2)*spacing
	}
}

// equalizeForkGroups compacts cross-line fork siblings to consecutive
// spacing. Siblings share a predecessor set but carry at least two
// distinct primary lines; per-line base assignment can spread them
// unevenly when one sibling carries more lines than the others. Groups
// on a single primary line (diamonds, fan-outs) are left alone.
func equalizeForkGroups(layer int, layers map[string]int, tracks map[string]float64, d *digraph, g *metro.MetroGraph, nodePrimary map[string]string, lineGap float64) {
	var layerNodes []string
	for _, sid := range g.StationIDs() {
		if layers[sid] == layer {
			if _, ok := tracks[sid]; ok {
				layerNodes = append(layerNodes, sid)
			}
		}
	}
	if len(layerNodes) < 2 {
		return
	}

	groups := make(map[string][]string)
	var keys []string
	for _, sid := range layerNodes {
		key := predKey(d.predecessors(sid))
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], sid)
	}

	for _, key := range keys {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		primaries := make(map[string]bool)
		for _, sid := range group {
			if p := nodePrimary[sid]; p != "" {
				primaries[p] = true
			}
		}
		if len(primaries) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool { return tracks[group[i]] < tracks[group[j]] })

		spacings := make([]float64, len(group)-1)
		for i := range spacings {
			spacings[i] = tracks[group[i+1]] - tracks[group[i]]
		}

		if len(group) == 2 {
			if spacings[0] <= lineGap+0.01 {
				continue
			}
		} else {
			min, max := spacings[0], spacings[0]
			for _, s := range spacings[1:] {
				if s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
			if max-min < 0.01 {
				continue
			}
		}

		base := tracks[group[0]]
		for i, sid := range group {
			tracks[sid] = base + float64(i)*lineGap
		}
	}
}

func predKey(preds []string) string {
	sorted := append([]string(nil), preds...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// ReorderLinesBySpan reorders the graph's lines by descending distinct
// section count, so lines that span more sections get earlier (inner)
// tracks. Ties preserve declaration order. No-op for flat graphs.
func ReorderLinesBySpan(g *metro.MetroGraph) {
	if g.SectionCount() == 0 {
		return
	}

	lineSections := make(map[string]map[string]bool)
	for _, lid := range g.LineOrder() {
		lineSections[lid] = make(map[string]bool)
	}
	for _, e := range g.Edges() {
		secs, ok := lineSections[e.LineID]
		if !ok {
			continue
		}
		if sid := g.SectionForStation(e.Source); sid != "" {
			secs[sid] = true
		}
		if sid := g.SectionForStation(e.Target); sid != "" {
			secs[sid] = true
		}
	}

	order := append([]string(nil), g.LineOrder()...)
	sort.SliceStable(order, func(i, j int) bool {
		return len(lineSections[order[i]]) > len(lineSections[order[j]])
	})
	g.SetLineOrder(order)
}

func stringSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func intersects(set map[string]bool, xs []string) bool {
	for _, x := range xs {
		if set[x] {
			return true
		}
	}
	return false
}
