package layout

import (
	"math"
	"sort"

	"github.com/matzehuels/metromap/pkg/metro"
)

// placementArc is one dependency edge of the section meta-graph.
type placementArc struct {
	src, tgt string
}

// buildPlacementArcs derives section dependency arcs from graph edges,
// tracing through junctions: an arc exists when an edge crosses two
// sections directly or when both sections touch the same junction from
// opposite ends.
func buildPlacementArcs(g *metro.MetroGraph) []placementArc {
	var arcs []placementArc
	seen := make(map[placementArc]bool)
	add := func(src, tgt string) {
		a := placementArc{src, tgt}
		if src != tgt && !seen[a] {
			seen[a] = true
			arcs = append(arcs, a)
		}
	}

	junctionSources := make(map[string][]string)
	junctionTargets := make(map[string][]string)

	for _, e := range g.Edges() {
		srcSec := g.SectionForStation(e.Source)
		tgtSec := g.SectionForStation(e.Target)

		switch {
		case g.IsJunction(e.Target) && srcSec != "":
			junctionSources[e.Target] = appendUnique(junctionSources[e.Target], srcSec)
		case g.IsJunction(e.Source) && tgtSec != "":
			junctionTargets[e.Source] = appendUnique(junctionTargets[e.Source], tgtSec)
		case srcSec != "" && tgtSec != "":
			add(srcSec, tgtSec)
		}
	}

	for _, jid := range g.Junctions() {
		for _, srcSec := range junctionSources[jid] {
			for _, tgtSec := range junctionTargets[jid] {
				add(srcSec, tgtSec)
			}
		}
	}

	return arcs
}

// assignGridLayout computes grid columns via BFS topological layering of
// the section meta-graph and stacks rows within each column: explicitly
// pinned rows first, then automatic sections in definition-number order
// skipping used rows.
func assignGridLayout(g *metro.MetroGraph, arcs []placementArc) (colAssign, rowAssign map[string]int) {
	sectionIDs := g.SectionIDs()

	inDegree := make(map[string]int, len(sectionIDs))
	adj := make(map[string][]string, len(sectionIDs))
	for _, sid := range sectionIDs {
		inDegree[sid] = 0
	}
	for _, a := range arcs {
		adj[a.src] = append(adj[a.src], a.tgt)
		inDegree[a.tgt]++
	}

	colAssign = make(map[string]int, len(sectionIDs))
	var queue []string
	for _, sid := range sectionIDs {
		if inDegree[sid] == 0 {
			queue = append(queue, sid)
			colAssign[sid] = 0
		}
	}
	for len(queue) > 0 {
		sid := queue[0]
		queue = queue[1:]
		for _, tgt := range adj[sid] {
			if newCol := colAssign[sid] + 1; newCol > colAssign[tgt] {
				colAssign[tgt] = newCol
			}
			inDegree[tgt]--
			if inDegree[tgt] == 0 {
				queue = append(queue, tgt)
			}
		}
	}

	// Overrides win over topological columns.
	for _, sid := range sectionIDs {
		ov, ok := g.GridOverrides[sid]
		if !ok {
			continue
		}
		sec := g.Section(sid)
		sec.GridCol = ov.Col
		sec.GridRow = ov.Row
		sec.GridRowSpan = ov.RowSpan
		sec.GridColSpan = ov.ColSpan
		colAssign[sid] = ov.Col
	}

	colGroups := make(map[int][]string)
	var cols []int
	for _, sid := range sectionIDs {
		col := colAssign[sid]
		if _, ok := colGroups[col]; !ok {
			cols = append(cols, col)
		}
		colGroups[col] = append(colGroups[col], sid)
	}
	sort.Ints(cols)

	rowAssign = make(map[string]int, len(sectionIDs))
	for _, col := range cols {
		sids := colGroups[col]

		var auto []string
		usedRows := make(map[int]bool)
		for _, sid := range sids {
			sec := g.Section(sid)
			if sec.GridRow >= 0 {
				rowAssign[sid] = sec.GridRow
				for r := sec.GridRow; r < sec.GridRow+sec.GridRowSpan; r++ {
					usedRows[r] = true
				}
			} else {
				auto = append(auto, sid)
			}
		}

		sort.SliceStable(auto, func(i, j int) bool {
			return g.Section(auto[i]).Number < g.Section(auto[j]).Number
		})

		nextRow := 0
		for _, sid := range auto {
			for usedRows[nextRow] {
				nextRow++
			}
			rowAssign[sid] = nextRow
			usedRows[nextRow] = true
			nextRow++
		}
	}

	return colAssign, rowAssign
}

// computeSectionOffsets converts grid assignments to pixel offsets.
// Column widths come from the widest single-span section per column and
// row heights from the tallest single-row non-TB section per row, with
// spanning sections expanding the last spanned column or row when they
// don't fit. TB fold sections are stretched into the next row band, and
// columns holding RL or TB sections are right-aligned.
func computeSectionOffsets(g *metro.MetroGraph, colAssign, rowAssign map[string]int, sectionXGap, sectionYGap float64) (minCol, maxCol int) {
	sections := g.Sections()
	if len(sections) == 0 {
		return 0, 0
	}

	first := true
	for _, sec := range sections {
		col := colAssign[sec.ID]
		if first {
			minCol, maxCol = col, col+sec.GridColSpan-1
			first = false
			continue
		}
		if col < minCol {
			minCol = col
		}
		if end := col + sec.GridColSpan - 1; end > maxCol {
			maxCol = end
		}
	}

	colWidths := make(map[int]float64)
	for _, sec := range sections {
		if sec.GridColSpan == 1 {
			col := colAssign[sec.ID]
			if sec.BboxW > colWidths[col] {
				colWidths[col] = sec.BboxW
			}
		}
	}

	for _, sec := range sections {
		cspan := sec.GridColSpan
		if cspan <= 1 {
			continue
		}
		startCol := colAssign[sec.ID]
		spanned := float64(cspan-1) * sectionXGap
		for c := startCol; c < startCol+cspan; c++ {
			spanned += colWidths[c]
		}
		if sec.BboxW > spanned {
			colWidths[startCol+cspan-1] += sec.BboxW - spanned
		}
	}

	colOffsets := make(map[int]float64)
	cumulativeX := 0.0
	for col := minCol; col <= maxCol; col++ {
		colOffsets[col] = cumulativeX
		cumulativeX += colWidths[col] + sectionXGap
	}

	maxRow := 0
	for _, sec := range sections {
		if end := rowAssign[sec.ID] + sec.GridRowSpan - 1; end > maxRow {
			maxRow = end
		}
	}

	rowHeights := make(map[int]float64)
	for _, sec := range sections {
		if sec.GridRowSpan == 1 && sec.Direction != metro.DirTB {
			row := rowAssign[sec.ID]
			if sec.BboxH > rowHeights[row] {
				rowHeights[row] = sec.BboxH
			}
		}
	}

	for _, sec := range sections {
		rspan := sec.GridRowSpan
		if rspan <= 1 {
			continue
		}
		startRow := rowAssign[sec.ID]
		spanned := float64(rspan-1) * sectionYGap
		for r := startRow; r < startRow+rspan; r++ {
			spanned += rowHeights[r]
		}
		if sec.BboxH > spanned {
			rowHeights[startRow+rspan-1] += sec.BboxH - spanned
		}
	}

	rowOffsets := make(map[int]float64)
	cumulativeY := 0.0
	for r := 0; r <= maxRow; r++ {
		rowOffsets[r] = cumulativeY
		cumulativeY += rowHeights[r] + sectionYGap
	}

	// Single-row TB folds stretch into the next band so the bridge
	// visually connects the rows.
	var tbSections []*metro.Section
	for _, sec := range sections {
		if sec.Direction == metro.DirTB && sec.GridRowSpan == 1 {
			tbSections = append(tbSections, sec)
		}
	}
	sort.SliceStable(tbSections, func(i, j int) bool {
		return rowAssign[tbSections[i].ID] < rowAssign[tbSections[j].ID]
	})
	for _, sec := range tbSections {
		row := rowAssign[sec.ID]
		nextRow := row + 1
		if nextRow > maxRow {
			continue
		}
		sec.BboxH += sectionYGap
		tbBottom := rowOffsets[row] + sec.BboxH
		nextRowBottom := rowOffsets[nextRow] + rowHeights[nextRow]
		if tbBottom > nextRowBottom {
			delta := tbBottom - nextRowBottom
			for r := nextRow; r <= maxRow; r++ {
				rowOffsets[r] += delta
			}
		}
		sec.BboxH = rowOffsets[nextRow] + rowHeights[nextRow] - rowOffsets[row]
	}

	rightAlignCols := make(map[int]bool)
	for _, sec := range sections {
		if (sec.Direction == metro.DirRL || sec.Direction == metro.DirTB) && sec.GridColSpan == 1 {
			rightAlignCols[colAssign[sec.ID]] = true
		}
	}

	for _, sec := range sections {
		sec.GridCol = colAssign[sec.ID]
		sec.GridRow = rowAssign[sec.ID]
		sec.OffsetX = colOffsets[sec.GridCol]
		sec.OffsetY = rowOffsets[sec.GridRow]

		if sec.GridColSpan == 1 && rightAlignCols[sec.GridCol] {
			if colW := colWidths[sec.GridCol]; colW > sec.BboxW {
				sec.OffsetX += colW - sec.BboxW
			}
		}

		if rspan := sec.GridRowSpan; rspan > 1 {
			spanned := float64(rspan-1) * sectionYGap
			for r := sec.GridRow; r < sec.GridRow+rspan; r++ {
				spanned += rowHeights[r]
			}
			sec.BboxH = spanned
		}

		if cspan := sec.GridColSpan; cspan > 1 {
			spanned := float64(cspan-1) * sectionXGap
			for c := sec.GridCol; c < sec.GridCol+cspan; c++ {
				spanned += colWidths[c]
			}
			sec.BboxW = spanned
		}
	}

	return minCol, maxCol
}

// PlaceSections places sections on the canvas: meta-graph column
// layering, row stacking, pixel offsets, and a final pass that keeps
// adjacent columns at least MinInterSectionGap apart. Gaps of zero or
// less fall back to the placement defaults.
func PlaceSections(g *metro.MetroGraph, sectionXGap, sectionYGap float64) {
	if g.SectionCount() == 0 {
		return
	}
	if sectionXGap <= 0 {
		sectionXGap = PlacementXGap
	}
	if sectionYGap <= 0 {
		sectionYGap = PlacementYGap
	}

	arcs := buildPlacementArcs(g)
	colAssign, rowAssign := assignGridLayout(g, arcs)
	minCol, maxCol := computeSectionOffsets(g, colAssign, rowAssign, sectionXGap, sectionYGap)
	enforceMinColumnGaps(g, colAssign, minCol, maxCol, MinInterSectionGap)
}

// enforceMinColumnGaps shifts columns rightward until every adjacent
// column pair keeps at least minGap between bboxes. Pairs are scanned
// left to right so shifts accumulate.
func enforceMinColumnGaps(g *metro.MetroGraph, colAssign map[string]int, minCol, maxCol int, minGap float64) {
	if maxCol <= minCol {
		return
	}

	colSections := make(map[int][]*metro.Section)
	for _, sec := range g.Sections() {
		col := colAssign[sec.ID]
		colSections[col] = append(colSections[col], sec)
	}

	for col := minCol; col < maxCol; col++ {
		leftSecs := colSections[col]
		rightSecs := colSections[col+1]
		if len(leftSecs) == 0 || len(rightSecs) == 0 {
			continue
		}

		maxRightEdge := math.Inf(-1)
		for _, s := range leftSecs {
			if edge := s.OffsetX + s.BboxX + s.BboxW; edge > maxRightEdge {
				maxRightEdge = edge
			}
		}
		minLeftEdge := math.Inf(1)
		for _, s := range rightSecs {
			if edge := s.OffsetX + s.BboxX; edge < minLeftEdge {
				minLeftEdge = edge
			}
		}

		actualGap := minLeftEdge - maxRightEdge
		if actualGap >= minGap {
			continue
		}
		deficit := minGap - actualGap
		for shiftCol := col + 1; shiftCol <= maxCol; shiftCol++ {
			for _, s := range colSections[shiftCol] {
				s.OffsetX += deficit
			}
		}
	}
}

// PositionPorts places a section's port stations on its boundary: entry
// ports on the entry side, exit ports on the exit side, aligned with
// connected internal stations where possible and spread evenly when they
// would overlap. TB sections move LEFT/RIGHT exit ports down to the
// bottom edge so lines flow past the last station before curving out.
func PositionPorts(sec *metro.Section, g *metro.MetroGraph) {
	sidePorts := make(map[metro.Side][]string)
	for _, pid := range append(append([]string(nil), sec.EntryPorts...), sec.ExitPorts...) {
		if port := g.Port(pid); port != nil {
			sidePorts[port.Side] = append(sidePorts[port.Side], pid)
		}
	}

	for _, side := range sideOrder {
		portIDs := sidePorts[side]
		if len(portIDs) == 0 {
			continue
		}
		switch side {
		case metro.SideLeft:
			positionPortsOnBoundary(portIDs, sec.BboxX, sec, g, true)
		case metro.SideRight:
			positionPortsOnBoundary(portIDs, sec.BboxX+sec.BboxW, sec, g, true)
		case metro.SideTop:
			positionPortsOnBoundary(portIDs, sec.BboxY, sec, g, false)
		case metro.SideBottom:
			positionPortsOnBoundary(portIDs, sec.BboxY+sec.BboxH, sec, g, false)
		}
	}

	if sec.Direction == metro.DirTB {
		for _, pid := range sec.ExitPorts {
			port := g.Port(pid)
			if port == nil || !port.Side.Horizontal() {
				continue
			}
			targetY := sec.BboxY + sec.BboxH
			if st := g.Station(pid); st != nil {
				st.Y = targetY
			}
			port.Y = targetY
		}
	}
}

// positionPortsOnBoundary pins ports to one boundary coordinate and
// slides each along the free axis toward its connected internal
// stations. fixedX selects vertical boundaries (LEFT/RIGHT).
func positionPortsOnBoundary(portIDs []string, fixedCoord float64, sec *metro.Section, g *metro.MetroGraph, fixedX bool) {
	for _, pid := range portIDs {
		st := g.Station(pid)
		if st == nil {
			continue
		}

		connected, ok := connectedInternalCoord(pid, sec, g, !fixedX)
		if fixedX {
			st.X = fixedCoord
			if ok {
				st.Y = connected
			} else {
				st.Y = sec.BboxY + sec.BboxH/2
			}
		} else {
			st.Y = fixedCoord
			if ok {
				st.X = connected
			} else {
				st.X = sec.BboxX + sec.BboxW/2
			}
		}

		if port := g.Port(pid); port != nil {
			port.X = st.X
			port.Y = st.Y
		}
	}

	var spanStart, spanEnd float64
	if fixedX {
		spanStart, spanEnd = sec.BboxY, sec.BboxY+sec.BboxH
	} else {
		spanStart, spanEnd = sec.BboxX, sec.BboxX+sec.BboxW
	}
	spreadOverlappingPorts(portIDs, g, !fixedX, spanStart, spanEnd, PortMinGap)
}

// connectedInternalCoord averages the coordinate of internal stations
// adjacent to the port. alongX selects the X axis (TOP/BOTTOM sides).
func connectedInternalCoord(portID string, sec *metro.Section, g *metro.MetroGraph, alongX bool) (float64, bool) {
	internal := stringSet(sec.InternalStations())
	sum, n := 0.0, 0
	for _, e := range g.Edges() {
		var other string
		if e.Source == portID && internal[e.Target] {
			other = e.Target
		} else if e.Target == portID && internal[e.Source] {
			other = e.Source
		} else {
			continue
		}
		st := g.Station(other)
		if st == nil {
			continue
		}
		if alongX {
			sum += st.X
		} else {
			sum += st.Y
		}
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// spreadOverlappingPorts evenly spaces ports along the boundary span
// when any pair sits closer than minGap.
func spreadOverlappingPorts(portIDs []string, g *metro.MetroGraph, alongX bool, spanStart, spanEnd, minGap float64) {
	if len(portIDs) <= 1 {
		return
	}

	type portPos struct {
		id  string
		pos float64
	}
	var positions []portPos
	for _, pid := range portIDs {
		st := g.Station(pid)
		if st == nil {
			continue
		}
		pos := st.Y
		if alongX {
			pos = st.X
		}
		positions = append(positions, portPos{pid, pos})
	}
	sort.SliceStable(positions, func(i, j int) bool { return positions[i].pos < positions[j].pos })

	needsSpread := false
	for i := 1; i < len(positions); i++ {
		if math.Abs(positions[i].pos-positions[i-1].pos) < minGap {
			needsSpread = true
			break
		}
	}
	if !needsSpread {
		return
	}

	n := len(positions)
	available := (spanEnd - spanStart) - 2*minGap
	step := available / float64(maxInt(n-1, 1))

	for i, p := range positions {
		newPos := spanStart + minGap + float64(i)*step
		if st := g.Station(p.id); st != nil {
			if alongX {
				st.X = newPos
			} else {
				st.Y = newPos
			}
		}
		if port := g.Port(p.id); port != nil {
			if alongX {
				port.X = newPos
			} else {
				port.Y = newPos
			}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
