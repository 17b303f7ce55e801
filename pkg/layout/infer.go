package layout

import (
	"sort"

	"github.com/matzehuels/metromap/pkg/metro"
)

// sectionDAG captures inter-section dependencies: an arc src->tgt exists
// when any edge crosses from a station in src to a station in tgt.
// Adjacency slices are deduplicated and kept in edge insertion order.
type sectionDAG struct {
	succs map[string][]string
	preds map[string][]string
	// lines holds the distinct line IDs crossing each section arc.
	lines map[[2]string][]string
}

func (d *sectionDAG) empty() bool { return len(d.succs) == 0 && len(d.preds) == 0 }

func buildSectionDAG(g *metro.MetroGraph) *sectionDAG {
	d := &sectionDAG{
		succs: make(map[string][]string),
		preds: make(map[string][]string),
		lines: make(map[[2]string][]string),
	}
	for _, e := range g.Edges() {
		srcSec := g.SectionForStation(e.Source)
		tgtSec := g.SectionForStation(e.Target)
		if srcSec == "" || tgtSec == "" || srcSec == tgtSec {
			continue
		}
		d.succs[srcSec] = appendUnique(d.succs[srcSec], tgtSec)
		d.preds[tgtSec] = appendUnique(d.preds[tgtSec], srcSec)
		key := [2]string{srcSec, tgtSec}
		d.lines[key] = appendUnique(d.lines[key], e.LineID)
	}
	return d
}

func appendUnique(xs []string, s string) []string {
	for _, x := range xs {
		if x == s {
			return xs
		}
	}
	return append(xs, s)
}

// transitiveSuccessors walks the section DAG downstream from a section.
func (d *sectionDAG) transitiveSuccessors(sectionID string) map[string]bool {
	result := make(map[string]bool)
	queue := append([]string(nil), d.succs[sectionID]...)
	for len(queue) > 0 {
		sid := queue[0]
		queue = queue[1:]
		if result[sid] {
			continue
		}
		result[sid] = true
		queue = append(queue, d.succs[sid]...)
	}
	return result
}

// InferSectionLayout fills in missing grid positions, flow directions,
// and port side hints for sections, preserving anything set explicitly.
// maxStationColumns bounds the cumulative station layers per row band
// before the layout folds into a new band (<=0 uses the 15-column
// default). No-op for graphs with at most one section or without
// inter-section edges.
func InferSectionLayout(g *metro.MetroGraph, maxStationColumns int) {
	if g.SectionCount() <= 1 {
		return
	}
	if maxStationColumns <= 0 {
		maxStationColumns = 15
	}

	dag := buildSectionDAG(g)
	if dag.empty() {
		return
	}

	foldSections, belowFold := assignGridPositions(g, dag, maxStationColumns)
	optimizeRowspans(g, foldSections, dag)
	adjustExplicitTBSections(g, dag, foldSections)
	inferDirections(g, dag, foldSections, belowFold)
	optimizeColspans(g, foldSections, belowFold, dag)
	inferPortSides(g, dag, foldSections)
}

// estimateSectionLayers estimates a section's horizontal span as the
// longest path through its internal edges, with a floor of one layer.
func estimateSectionLayers(g *metro.MetroGraph, sectionID string) int {
	sec := g.Section(sectionID)
	members := stringSet(sec.StationIDs)

	adj := make(map[string][]string)
	hasPred := make(map[string]bool)
	hasEdges := false
	for _, e := range g.Edges() {
		if members[e.Source] && members[e.Target] {
			adj[e.Source] = appendUnique(adj[e.Source], e.Target)
			hasPred[e.Target] = true
			hasEdges = true
		}
	}

	if !hasEdges {
		if len(members) > 1 {
			return len(members)
		}
		return 1
	}

	var roots []string
	for _, sid := range sec.StationIDs {
		if !hasPred[sid] {
			roots = append(roots, sid)
		}
	}
	if len(roots) == 0 {
		return len(members)
	}

	longest := make(map[string]int, len(members))
	queue := append([]string(nil), roots...)
	visited := make(map[string]bool)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, succ := range adj[node] {
			if longest[node]+1 > longest[succ] {
				longest[succ] = longest[node] + 1
			}
			queue = append(queue, succ)
		}
	}

	deepest := 0
	for _, depth := range longest {
		if depth > deepest {
			deepest = depth
		}
	}
	return deepest + 1
}

// assignGridPositions places sections without explicit grid overrides
// into a serpentine grid. Topological columns fill a row band left to
// right until the cumulative station width overflows maxStationColumns;
// the overflowing column becomes a fold bridge pinned at the band's
// right edge, and later columns continue on a new band below, stepping
// in the opposite direction.
//
// Returns the fold sections and any below-fold sections (sections moved
// directly under a fold instead of onto the return row, used when the
// band is stacked and the folds' successors are exactly the next topo
// column).
func assignGridPositions(g *metro.MetroGraph, dag *sectionDAG, maxStationColumns int) (foldSections, belowFold map[string]bool) {
	foldSections = make(map[string]bool)
	belowFold = make(map[string]bool)

	sectionIDs := g.SectionIDs()

	// BFS topological columns over the section DAG.
	inDegree := make(map[string]int, len(sectionIDs))
	for _, sid := range sectionIDs {
		inDegree[sid] = 0
	}
	for src, targets := range dag.succs {
		if _, ok := inDegree[src]; !ok {
			continue
		}
		for _, tgt := range targets {
			if _, ok := inDegree[tgt]; ok {
				inDegree[tgt]++
			}
		}
	}

	colAssign := make(map[string]int, len(sectionIDs))
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
		for _, tgt := range dag.succs[sid] {
			if _, ok := inDegree[tgt]; !ok {
				continue
			}
			if newCol := colAssign[sid] + 1; newCol > colAssign[tgt] {
				colAssign[tgt] = newCol
			}
			inDegree[tgt]--
			if inDegree[tgt] == 0 {
				queue = append(queue, tgt)
			}
		}
	}

	// Sections with explicit overrides keep their cells.
	colGroups := make(map[int][]string)
	var topoCols []int
	for _, sid := range sectionIDs {
		if _, pinned := g.GridOverrides[sid]; pinned {
			continue
		}
		col := colAssign[sid]
		if _, ok := colGroups[col]; !ok {
			topoCols = append(topoCols, col)
		}
		colGroups[col] = append(colGroups[col], sid)
	}
	if len(colGroups) == 0 {
		return foldSections, belowFold
	}
	sort.Ints(topoCols)

	topoColWidth := make(map[int]int, len(colGroups))
	for col, sids := range colGroups {
		width := 0
		for _, sid := range sids {
			if w := estimateSectionLayers(g, sid); w > width {
				width = w
			}
		}
		topoColWidth[col] = width
	}

	type cell struct{ col, row int }
	placed := make(map[string]cell)
	skipTopoCols := make(map[int]bool)

	currentGridCol := 0
	colStep := 1 // +1 on LR bands, -1 after a fold
	bandStartRow := 0
	maxStackInBand := 0
	cumulativeWidth := 0

	for topoIdx, topoCol := range topoCols {
		if skipTopoCols[topoCol] {
			continue
		}

		sids := colGroups[topoCol]
		w := topoColWidth[topoCol]
		stackSize := len(sids)
		needFold := cumulativeWidth > 0 && cumulativeWidth+w > maxStationColumns

		if !needFold {
			for i, sid := range sids {
				placed[sid] = cell{currentGridCol, bandStartRow + i}
			}
			if stackSize > maxStackInBand {
				maxStackInBand = stackSize
			}
			currentGridCol += colStep
			cumulativeWidth += w
			continue
		}

		foldCol := currentGridCol
		for i, sid := range sids {
			placed[sid] = cell{foldCol, bandStartRow + i}
			foldSections[sid] = true
		}
		bandHeight := maxStackInBand
		if stackSize > bandHeight {
			bandHeight = stackSize
		}
		if bandHeight < 1 {
			bandHeight = 1
		}
		bandStartRow += bandHeight
		colStep = -colStep
		currentGridCol = foldCol + colStep
		cumulativeWidth = 0
		maxStackInBand = 0

		// Below-fold placement: a return row over a stacked band routes
		// backward over its content. When every fold section has one
		// successor and those successors are exactly the next topo
		// column, drop them straight below the fold instead.
		if bandHeight > 1 && topoIdx+1 < len(topoCols) {
			nextTopo := topoCols[topoIdx+1]
			nextSids := colGroups[nextTopo]
			foldSuccs := make(map[string]bool)
			allSingle := true
			for _, fs := range sids {
				succs := dag.succs[fs]
				if len(succs) != 1 {
					allSingle = false
					break
				}
				foldSuccs[succs[0]] = true
			}
			if allSingle && sameSet(foldSuccs, stringSet(nextSids)) {
				for j, ns := range nextSids {
					placed[ns] = cell{foldCol, bandStartRow + j}
					belowFold[ns] = true
				}
				skipTopoCols[nextTopo] = true
				// Keep bandStartRow: below-fold sections sit in the fold
				// column, so return-row sections can share their rows.
			}
		}
	}

	for _, sid := range sectionIDs {
		c, ok := placed[sid]
		if !ok {
			continue
		}
		g.GridOverrides[sid] = metro.GridOverride{Col: c.col, Row: c.row, RowSpan: 1, ColSpan: 1}
		sec := g.Section(sid)
		sec.GridCol = c.col
		sec.GridRow = c.row
	}

	return foldSections, belowFold
}

// columnGroups indexes placed sections by grid column, in definition
// order within each column.
func columnGroups(g *metro.MetroGraph) map[int][]string {
	groups := make(map[int][]string)
	for _, sid := range g.SectionIDs() {
		if sec := g.Section(sid); sec.GridCol >= 0 {
			groups[sec.GridCol] = append(groups[sec.GridCol], sid)
		}
	}
	return groups
}

// optimizeRowspans extends fold sections over the rows of sections
// stacked in the column to their left, excluding return-row sections
// (transitive successors of the fold) and never into cells already
// occupied in the fold's own column.
func optimizeRowspans(g *metro.MetroGraph, foldSections map[string]bool, dag *sectionDAG) {
	if len(foldSections) == 0 {
		return
	}
	colGroups := columnGroups(g)

	for _, foldSid := range g.SectionIDs() {
		if !foldSections[foldSid] {
			continue
		}
		foldSec := g.Section(foldSid)
		foldCol, foldRow := foldSec.GridCol, foldSec.GridRow

		downstream := dag.transitiveSuccessors(foldSid)

		leftGroup, ok := colGroups[foldCol-1]
		if !ok {
			continue
		}

		maxRow := foldRow
		for _, sid := range leftGroup {
			if downstream[sid] {
				continue
			}
			if sec := g.Section(sid); sec.GridRow >= foldRow && sec.GridRow > maxRow {
				maxRow = sec.GridRow
			}
		}

		for _, sid := range colGroups[foldCol] {
			if sid == foldSid {
				continue
			}
			if sec := g.Section(sid); sec.GridRow > foldRow && sec.GridRow-1 < maxRow {
				maxRow = sec.GridRow - 1
			}
		}

		if span := maxRow - foldRow + 1; span > foldSec.GridRowSpan {
			foldSec.GridRowSpan = span
			g.GridOverrides[foldSid] = metro.GridOverride{Col: foldCol, Row: foldRow, RowSpan: span, ColSpan: foldSec.GridColSpan}
		}
	}
}

// adjustExplicitTBSections gives explicitly TB sections the same rowspan
// treatment as fold bridges and drops their rightward successors to the
// bottom of the span so lines exit downward.
func adjustExplicitTBSections(g *metro.MetroGraph, dag *sectionDAG, foldSections map[string]bool) {
	var explicitTB []string
	for _, sid := range g.SectionIDs() {
		sec := g.Section(sid)
		if sec.Direction == metro.DirTB && g.HasExplicitDirection(sid) && !foldSections[sid] && sec.GridCol >= 0 {
			explicitTB = append(explicitTB, sid)
		}
	}
	if len(explicitTB) == 0 {
		return
	}

	colGroups := columnGroups(g)

	for _, tbSid := range explicitTB {
		tbSec := g.Section(tbSid)
		tbCol, tbRow := tbSec.GridCol, tbSec.GridRow

		if leftGroup, ok := colGroups[tbCol-1]; ok {
			downstream := dag.transitiveSuccessors(tbSid)
			maxRow := tbRow
			for _, sid := range leftGroup {
				if downstream[sid] {
					continue
				}
				if sec := g.Section(sid); sec.GridRow >= tbRow && sec.GridRow > maxRow {
					maxRow = sec.GridRow
				}
			}
			for _, sid := range colGroups[tbCol] {
				if sid == tbSid {
					continue
				}
				if sec := g.Section(sid); sec.GridRow > tbRow && sec.GridRow-1 < maxRow {
					maxRow = sec.GridRow - 1
				}
			}
			if span := maxRow - tbRow + 1; span > tbSec.GridRowSpan {
				tbSec.GridRowSpan = span
				g.GridOverrides[tbSid] = metro.GridOverride{Col: tbCol, Row: tbRow, RowSpan: span, ColSpan: tbSec.GridColSpan}
			}
		}

		if tbSec.GridRowSpan > 1 {
			bottomRow := tbRow + tbSec.GridRowSpan - 1
			for _, succID := range dag.succs[tbSid] {
				succ := g.Section(succID)
				if succ == nil || succ.GridRow != tbRow || succ.GridCol <= tbCol {
					continue
				}
				succ.GridRow = bottomRow
				g.GridOverrides[succID] = metro.GridOverride{Col: succ.GridCol, Row: bottomRow, RowSpan: succ.GridRowSpan, ColSpan: succ.GridColSpan}
			}
		}
	}
}

// inferDirections sets each section's flow direction from grid
// positions, leaving explicit directions alone. Fold sections bridge row
// bands and are always TB; sections whose successors sit strictly to the
// left run RL (return rows), as do leaf sections fed from the right or
// from above; sections whose successors all sit below run TB; everything
// else runs LR.
func inferDirections(g *metro.MetroGraph, dag *sectionDAG, foldSections, belowFold map[string]bool) {
	for _, secID := range g.SectionIDs() {
		if g.HasExplicitDirection(secID) {
			continue
		}
		sec := g.Section(secID)

		if foldSections[secID] {
			sec.Direction = metro.DirTB
			continue
		}

		myCol, myRow := sec.GridCol, sec.GridRow

		var succCols, succRows []int
		for _, tgt := range dag.succs[secID] {
			if tgtSec := g.Section(tgt); tgtSec != nil && tgtSec.GridCol >= 0 {
				succCols = append(succCols, tgtSec.GridCol)
				succRows = append(succRows, tgtSec.GridRow)
			}
		}
		var predCols, predRows []int
		for _, src := range dag.preds[secID] {
			if srcSec := g.Section(src); srcSec != nil && srcSec.GridCol >= 0 {
				predCols = append(predCols, srcSec.GridCol)
				predRows = append(predRows, srcSec.GridRow)
			}
		}

		// Successors all to the left: RL return row, unless every one is
		// strictly below (handled as TB). Below-fold sections keep RL
		// even then, since they route leftward.
		if len(succCols) > 0 && allLess(succCols, myCol) {
			if !allGreater(succRows, myRow) || belowFold[secID] {
				sec.Direction = metro.DirRL
				continue
			}
		}

		// Leaf fed from the right or from above: RL.
		if len(succCols) == 0 && len(predCols) > 0 {
			if allAtLeast(predCols, myCol) && (anyLess(predRows, myRow) || anyGreater(predCols, myCol)) {
				sec.Direction = metro.DirRL
				continue
			}
		}

		if len(succRows) > 0 && allGreater(succRows, myRow) {
			sec.Direction = metro.DirTB
			continue
		}

		sec.Direction = metro.DirLR
	}
}

func allLess(xs []int, v int) bool {
	for _, x := range xs {
		if x >= v {
			return false
		}
	}
	return true
}

func allGreater(xs []int, v int) bool {
	for _, x := range xs {
		if x <= v {
			return false
		}
	}
	return true
}

func allAtLeast(xs []int, v int) bool {
	for _, x := range xs {
		if x < v {
			return false
		}
	}
	return true
}

func anyLess(xs []int, v int) bool {
	for _, x := range xs {
		if x < v {
			return true
		}
	}
	return false
}

func anyGreater(xs []int, v int) bool {
	for _, x := range xs {
		if x > v {
			return true
		}
	}
	return false
}

// optimizeColspans spans oversized sections leftward so the column width
// is set by the narrower sections sharing the column. Applies to fold
// columns and to RL return-row sections; never spans a fold section
// itself, never spans into occupied cells, and skips below-fold sections
// that still have downstream sections.
func optimizeColspans(g *metro.MetroGraph, foldSections, belowFold map[string]bool, dag *sectionDAG) {
	colGroups := columnGroups(g)

	hasShared := false
	for _, sids := range colGroups {
		if len(sids) >= 2 {
			hasShared = true
			break
		}
	}
	if !hasShared {
		return
	}

	sectionLayers := make(map[string]int, g.SectionCount())
	for _, sid := range g.SectionIDs() {
		sectionLayers[sid] = estimateSectionLayers(g, sid)
	}

	colMaxLayers := make(map[int]int, len(colGroups))
	for col, sids := range colGroups {
		for _, sid := range sids {
			if sectionLayers[sid] > colMaxLayers[col] {
				colMaxLayers[col] = sectionLayers[sid]
			}
		}
	}

	type cell struct{ col, row int }
	occupied := make(map[cell]string)
	for _, sid := range g.SectionIDs() {
		sec := g.Section(sid)
		for c := sec.GridCol; c < sec.GridCol+sec.GridColSpan; c++ {
			for r := sec.GridRow; r < sec.GridRow+sec.GridRowSpan; r++ {
				occupied[cell{c, r}] = sid
			}
		}
	}

	var cols []int
	for col := range colGroups {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	for _, col := range cols {
		sids := colGroups[col]
		if len(sids) < 2 {
			continue
		}

		isFoldColumn := false
		for _, s := range sids {
			if foldSections[s] {
				isFoldColumn = true
				break
			}
		}

		for _, sid := range sids {
			if foldSections[sid] {
				continue
			}
			// Spanning a below-fold section with downstream sections
			// would push its successors further away.
			if belowFold[sid] && len(dag.succs[sid]) > 0 {
				continue
			}

			sec := g.Section(sid)
			if !isFoldColumn && sec.Direction != metro.DirRL {
				continue
			}

			otherMax := 0
			for _, s := range sids {
				if s != sid && sectionLayers[s] > otherMax {
					otherMax = sectionLayers[s]
				}
			}
			if sectionLayers[sid] <= otherMax {
				continue
			}

			target := sectionLayers[sid]
			accumulated := otherMax
			startCol := col
			colspan := 1

			for leftCol := col - 1; leftCol >= 0; leftCol-- {
				width, ok := colMaxLayers[leftCol]
				if !ok {
					break
				}
				conflict := false
				for r := sec.GridRow; r < sec.GridRow+sec.GridRowSpan; r++ {
					if occ, taken := occupied[cell{leftCol, r}]; taken && occ != sid {
						conflict = true
						break
					}
				}
				if conflict {
					break
				}
				accumulated += width
				startCol = leftCol
				colspan++
				if accumulated >= target {
					break
				}
			}

			if colspan > 1 {
				for c := startCol; c < startCol+colspan; c++ {
					for r := sec.GridRow; r < sec.GridRow+sec.GridRowSpan; r++ {
						occupied[cell{c, r}] = sid
					}
				}
				sec.GridCol = startCol
				sec.GridColSpan = colspan
				g.GridOverrides[sid] = metro.GridOverride{Col: startCol, Row: sec.GridRow, RowSpan: sec.GridRowSpan, ColSpan: colspan}
			}
		}
	}
}

// sideOrder fixes the order in which inferred hints are emitted.
var sideOrder = []metro.Side{metro.SideLeft, metro.SideRight, metro.SideTop, metro.SideBottom}

// inferPortSides derives entry and exit side hints from relative grid
// positions, leaving sections with explicit hints alone. Each side
// collects the lines crossing toward it; fold sections get a single exit
// side chosen by line-count vote.
func inferPortSides(g *metro.MetroGraph, dag *sectionDAG, foldSections map[string]bool) {
	for _, secID := range g.SectionIDs() {
		sec := g.Section(secID)
		myCol, myRow := sec.GridCol, sec.GridRow

		if len(sec.ExitHints) == 0 && len(dag.succs[secID]) > 0 {
			if foldSections[secID] {
				var allExitLines []string
				for _, tgt := range dag.succs[secID] {
					for _, lid := range dag.lines[[2]string{secID, tgt}] {
						allExitLines = appendUnique(allExitLines, lid)
					}
				}
				if len(allExitLines) > 0 {
					sort.Strings(allExitLines)
					side := computeFoldExitSide(g, sec, secID, dag)
					sec.ExitHints = append(sec.ExitHints, metro.SideHint{Side: side, LineIDs: allExitLines})
				}
			} else {
				sideLines := make(map[metro.Side][]string)
				for _, tgt := range dag.succs[secID] {
					tgtSec := g.Section(tgt)
					if tgtSec == nil {
						continue
					}
					if _, pinned := g.GridOverrides[tgt]; !pinned {
						continue
					}
					side := relativeSide(myCol, myRow, tgtSec.GridCol, tgtSec.GridRow, sec.GridColSpan, tgtSec.GridColSpan)
					for _, lid := range dag.lines[[2]string{secID, tgt}] {
						sideLines[side] = appendUnique(sideLines[side], lid)
					}
				}
				for _, side := range sideOrder {
					if lines := sideLines[side]; len(lines) > 0 {
						sort.Strings(lines)
						sec.ExitHints = append(sec.ExitHints, metro.SideHint{Side: side, LineIDs: lines})
					}
				}
			}
		}

		if len(sec.EntryHints) == 0 && len(dag.preds[secID]) > 0 {
			sideLines := make(map[metro.Side][]string)
			for _, src := range dag.preds[secID] {
				srcSec := g.Section(src)
				if srcSec == nil {
					continue
				}
				if _, pinned := g.GridOverrides[src]; !pinned {
					continue
				}
				side := relativeSide(myCol, myRow, srcSec.GridCol, srcSec.GridRow, sec.GridColSpan, srcSec.GridColSpan)
				for _, lid := range dag.lines[[2]string{src, secID}] {
					sideLines[side] = appendUnique(sideLines[side], lid)
				}
			}
			for _, side := range sideOrder {
				if lines := sideLines[side]; len(lines) > 0 {
					sort.Strings(lines)
					sec.EntryHints = append(sec.EntryHints, metro.SideHint{Side: side, LineIDs: lines})
				}
			}
		}
	}
}

// computeFoldExitSide votes on the exit side of a fold bridge by line
// count toward each successor. Multi-row folds whose successors all sit
// below the span exit BOTTOM so lines keep flowing downward.
func computeFoldExitSide(g *metro.MetroGraph, sec *metro.Section, secID string, dag *sectionDAG) metro.Side {
	votes := make(map[metro.Side]int)
	for _, tgt := range dag.succs[secID] {
		tgtSec := g.Section(tgt)
		if tgtSec == nil {
			continue
		}
		side := relativeSide(sec.GridCol, sec.GridRow, tgtSec.GridCol, tgtSec.GridRow, sec.GridColSpan, tgtSec.GridColSpan)
		votes[side] += len(dag.lines[[2]string{secID, tgt}])
	}
	if len(votes) == 0 {
		return metro.SideBottom
	}

	dominant, best := metro.SideBottom, -1
	for _, side := range sideOrder {
		if votes[side] > best {
			dominant, best = side, votes[side]
		}
	}

	if sec.GridRowSpan > 1 && dominant.Horizontal() {
		foldBottomRow := sec.GridRow + sec.GridRowSpan - 1
		allBelow := true
		for _, tgt := range dag.succs[secID] {
			if tgtSec := g.Section(tgt); tgtSec != nil && tgtSec.GridRow <= foldBottomRow {
				allBelow = false
				break
			}
		}
		if allBelow {
			dominant = metro.SideBottom
		}
	}

	return dominant
}

// relativeSide returns the side of one section that faces another.
// Horizontal wins when the column ranges don't overlap, since pipeline
// flow is primarily horizontal; overlapping columns fall back to
// vertical; identical positions default to RIGHT.
func relativeSide(myCol, myRow, otherCol, otherRow, myColSpan, otherColSpan int) metro.Side {
	if myColSpan < 1 {
		myColSpan = 1
	}
	if otherColSpan < 1 {
		otherColSpan = 1
	}
	myColEnd := myCol + myColSpan - 1
	otherColEnd := otherCol + otherColSpan - 1
	colsOverlap := myCol <= otherColEnd && otherCol <= myColEnd

	if !colsOverlap {
		if otherCol > myCol {
			return metro.SideRight
		}
		if otherCol < myCol {
			return metro.SideLeft
		}
	}

	if otherRow > myRow {
		return metro.SideBottom
	}
	if otherRow < myRow {
		return metro.SideTop
	}
	return metro.SideRight
}
