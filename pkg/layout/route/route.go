package route

import (
	"math"
	"strings"

	"github.com/matzehuels/metromap/pkg/layout"
	"github.com/matzehuels/metromap/pkg/metro"
)

// RouteEdges converts every edge of a positioned graph into a drawable
// polyline. Each edge is tried against a sequence of specialized
// handlers, first match wins:
//
//  1. inter-section edges between ports/junctions: straight runs,
//     vertical drops from TB BOTTOM exits, bypass U-shapes around
//     intervening sections, or L-shapes through an inter-column channel
//  2. vertical drops inside TB sections
//  3. concentric L-shapes at TB LEFT/RIGHT exit and entry ports
//  4. L-shaped elbows from TOP/BOTTOM ports, merged with the upstream
//     inter-section edge when both meet at the same Y
//  5. cross-row fold connectors through the layout's right edge
//  6. intra-section diagonals (horizontal, 45 degree run, horizontal)
//
// Routing never fails on a positioned graph; edges with missing
// endpoints are skipped.
func RouteEdges(g *metro.MetroGraph, diagonalRun, curveRadius float64, offsets Offsets) []RoutedPath {
	if diagonalRun <= 0 {
		diagonalRun = layout.DiagonalRun
	}
	if curveRadius <= 0 {
		curveRadius = layout.CurveRadius
	}

	var routes []RoutedPath

	foldX := 0.0
	for i, sid := range g.StationIDs() {
		if x := g.Station(sid).X; i == 0 || x > foldX {
			foldX = x
		}
	}

	// Junctions fed by BOTTOM exit ports route vertical-first.
	bottomExitJunctions := make(map[string]bool)
	bottomExitJunctionPorts := make(map[string]string)
	for _, e := range g.Edges() {
		if !g.IsJunction(e.Target) {
			continue
		}
		if port := g.Port(e.Source); port != nil && !port.IsEntry && port.Side == metro.SideBottom {
			bottomExitJunctions[e.Target] = true
			bottomExitJunctionPorts[e.Target] = e.Source
		}
	}

	linePriority := g.LinePriority()
	offsetStep := layout.OffsetStep

	forkTargets := make(map[string]map[string]bool)
	joinSources := make(map[string]map[string]bool)
	for _, e := range g.Edges() {
		if forkTargets[e.Source] == nil {
			forkTargets[e.Source] = make(map[string]bool)
		}
		forkTargets[e.Source][e.Target] = true
		if joinSources[e.Target] == nil {
			joinSources[e.Target] = make(map[string]bool)
		}
		joinSources[e.Target][e.Source] = true
	}
	isFork := func(sid string) bool { return len(forkTargets[sid]) > 1 }
	isJoin := func(sid string) bool { return len(joinSources[sid]) > 1 }

	tbSections := make(map[string]bool)
	for _, sec := range g.Sections() {
		if sec.Direction == metro.DirTB {
			tbSections[sec.ID] = true
		}
	}

	// TB sections entered from the RIGHT keep non-reversed X offsets on
	// their vertical runs, matching their entry/exit corner geometry.
	tbRightEntry := make(map[string]bool)
	for _, pid := range g.PortIDs() {
		port := g.Port(pid)
		if port.IsEntry && port.Side == metro.SideRight && tbSections[port.SectionID] {
			tbRightEntry[port.SectionID] = true
		}
	}

	bundleInfo := computeBundleInfo(g, linePriority, bottomExitJunctions)

	maxOffsetAt := func(sid string) float64 {
		max := 0.0
		for _, lid := range g.StationLines(sid) {
			if off := offsets.Get(sid, lid); off > max {
				max = off
			}
		}
		return max
	}

	// Pre-pass: a TOP/BOTTOM port into an internal station absorbs the
	// upstream inter-section edge arriving at the same Y, so the pair
	// draws as one continuous route regardless of edge order.
	skipEdges := make(map[edgeKey]bool)
	upstreamMerge := make(map[edgeKey]string)
	for _, e := range g.Edges() {
		srcPort := g.Port(e.Source)
		src, tgt := g.Station(e.Source), g.Station(e.Target)
		if srcPort == nil || !srcPort.Side.Vertical() || src == nil || tgt == nil || tgt.IsPort {
			continue
		}
		for _, e2 := range g.Edges() {
			if e2.Target != e.Source || e2.LineID != e.LineID {
				continue
			}
			u := g.Station(e2.Source)
			if u == nil {
				continue
			}
			// TB BOTTOM exits keep their clean vertical drop as a
			// separate segment.
			if up := g.Port(e2.Source); up != nil && !up.IsEntry &&
				up.Side == metro.SideBottom && tbSections[u.SectionID] {
				continue
			}
			// Cross-column sources at a different Y converge at the
			// entry port first; only same-Y sources merge.
			if math.Abs(u.Y-src.Y) > layout.CoordTolerance {
				continue
			}
			upstreamMerge[edgeKey{e.Source, e.Target, e.LineID}] = e2.Source
			skipEdges[edgeKey{e2.Source, e2.Target, e2.LineID}] = true
			break
		}
	}

	for _, edge := range g.Edges() {
		if skipEdges[edgeKey{edge.Source, edge.Target, edge.LineID}] {
			continue
		}

		src, tgt := g.Station(edge.Source), g.Station(edge.Target)
		if src == nil || tgt == nil {
			continue
		}

		sx, sy := src.X, src.Y
		tx, ty := tgt.X, tgt.Y
		dx := tx - sx
		dy := ty - sy

		srcInter := src.IsPort || g.IsJunction(edge.Source)
		tgtInter := tgt.IsPort || g.IsJunction(edge.Target)
		if srcInter && tgtInter {
			routes = append(routes, routeInterSection(g, edge, src, tgt, offsets,
				bundleInfo, bottomExitJunctions, bottomExitJunctionPorts,
				tbSections, tbRightEntry, curveRadius, offsetStep, maxOffsetAt))
			continue
		}

		// Vertical runs inside TB sections, including the feed into a
		// BOTTOM exit port so the drop continues without a kink.
		tgtPort := g.Port(edge.Target)
		tgtIsBottomExit := tgtPort != nil && !tgtPort.IsEntry && tgtPort.Side == metro.SideBottom
		if src.SectionID != "" && src.SectionID == tgt.SectionID && tbSections[src.SectionID] &&
			!src.IsPort && (!tgt.IsPort || tgtIsBottomExit) {
			srcOff := offsets.Get(edge.Source, edge.LineID)
			tgtOff := offsets.Get(edge.Target, edge.LineID)
			xSrc, xTgt := srcOff, tgtOff
			if !tbRightEntry[src.SectionID] {
				xSrc = ReversedOffset(srcOff, maxOffsetAt(edge.Source))
				xTgt = ReversedOffset(tgtOff, maxOffsetAt(edge.Target))
			}
			routes = append(routes, RoutedPath{
				Edge:           edge,
				LineID:         edge.LineID,
				Points:         []Point{{sx + xSrc, sy}, {tx + xTgt, ty}},
				OffsetsApplied: true,
			})
			continue
		}

		// Internal station into a TB section's LEFT/RIGHT exit port:
		// vertical drop, concentric corner, horizontal to the port.
		if tgtPort != nil && !tgtPort.IsEntry && tgtPort.Side.Horizontal() &&
			!src.IsPort && tbSections[src.SectionID] && src.SectionID == tgt.SectionID {
			srcOff := offsets.Get(edge.Source, edge.LineID)
			vertX, horizY, r := TBExitCorner(srcOff, maxOffsetAt(edge.Source),
				tgtPort.Side == metro.SideRight, curveRadius)
			routes = append(routes, RoutedPath{
				Edge:   edge,
				LineID: edge.LineID,
				Points: []Point{
					{sx + vertX, sy},
					{sx + vertX, ty + horizY},
					{tx, ty + horizY},
				},
				OffsetsApplied: true,
				CurveRadii:     []float64{r},
			})
			continue
		}

		// TB section LEFT/RIGHT entry port into its first internal
		// station: horizontal run, concentric corner, vertical drop.
		srcPort := g.Port(edge.Source)
		if srcPort != nil && srcPort.IsEntry && srcPort.Side.Horizontal() &&
			!tgt.IsPort && tbSections[src.SectionID] {
			srcOff := offsets.Get(edge.Source, edge.LineID)
			tgtOff := offsets.Get(edge.Target, edge.LineID)
			vertX, r := TBEntryCorner(tgtOff, maxOffsetAt(edge.Target),
				srcPort.Side == metro.SideRight, curveRadius)
			routes = append(routes, RoutedPath{
				Edge:   edge,
				LineID: edge.LineID,
				Points: []Point{
					{sx, sy + srcOff},
					{tx + vertX, sy + srcOff},
					{tx + vertX, ty},
				},
				OffsetsApplied: true,
				CurveRadii:     []float64{r},
			})
			continue
		}

		// TOP/BOTTOM port into an internal station, optionally fused
		// with the upstream inter-section edge arriving at the same Y.
		if srcPort != nil && srcPort.Side.Vertical() && !tgt.IsPort {
			srcOff := offsets.Get(edge.Source, edge.LineID)
			tgtOff := offsets.Get(edge.Target, edge.LineID)

			var upstream *metro.Station
			if uid, ok := upstreamMerge[edgeKey{edge.Source, edge.Target, edge.LineID}]; ok {
				upstream = g.Station(uid)
			}

			switch {
			case upstream != nil:
				upYOff := offsets.Get(upstream.ID, edge.LineID)
				if math.Abs(upstream.X-sx) < layout.CoordTolerance {
					midX := interColumnChannelX(g, upstream, tgt,
						upstream.X, tx, tx-upstream.X, curveRadius, offsetStep)
					routes = append(routes, RoutedPath{
						Edge:   edge,
						LineID: edge.LineID,
						Points: []Point{
							{upstream.X, upstream.Y + upYOff},
							{midX + srcOff, upstream.Y + upYOff},
							{midX + srcOff, ty + tgtOff},
							{tx, ty + tgtOff},
						},
						OffsetsApplied: true,
						CurveRadii:     []float64{curveRadius, curveRadius + srcOff},
					})
				} else {
					revTgt := ReversedOffset(tgtOff, maxOffsetAt(edge.Target))
					routes = append(routes, RoutedPath{
						Edge:   edge,
						LineID: edge.LineID,
						Points: []Point{
							{upstream.X, upstream.Y + upYOff},
							{tx + revTgt, upstream.Y + upYOff},
							{tx + revTgt, ty + tgtOff},
						},
						OffsetsApplied: true,
						CurveRadii:     []float64{curveRadius + revTgt},
					})
				}
			case math.Abs(dx) < layout.CoordTolerance:
				routes = append(routes, RoutedPath{
					Edge:           edge,
					LineID:         edge.LineID,
					Points:         []Point{{sx + srcOff, sy}, {tx, ty + tgtOff}},
					OffsetsApplied: true,
				})
			default:
				routes = append(routes, RoutedPath{
					Edge:   edge,
					LineID: edge.LineID,
					Points: []Point{
						{sx + srcOff, sy},
						{sx + srcOff, ty + tgtOff},
						{tx, ty + tgtOff},
					},
					OffsetsApplied: true,
					CurveRadii:     []float64{curveRadius + srcOff},
				})
			}
			continue
		}

		// Cross-row edge in a folded layout: the target sits to the
		// left and a full row band away.
		if dx <= 0 && math.Abs(dy) > layout.CrossRowThreshold {
			foldRight := foldX + layout.FoldMargin
			routes = append(routes, RoutedPath{
				Edge:   edge,
				LineID: edge.LineID,
				Points: []Point{{sx, sy}, {foldRight, sy}, {foldRight, ty}, {tx, ty}},
			})
			continue
		}

		if math.Abs(sy-ty) < layout.CoordToleranceFine || math.Abs(dx) < layout.CoordTolerance {
			routes = append(routes, RoutedPath{
				Edge:   edge,
				LineID: edge.LineID,
				Points: []Point{{sx, sy}, {tx, ty}},
			})
			continue
		}

		routes = append(routes, routeDiagonal(edge, src, tgt, diagonalRun, curveRadius, isFork, isJoin))
	}

	return routes
}

// routeDiagonal routes an intra-section track change as horizontal run,
// 45 degree diagonal, horizontal run. The diagonal is biased toward a
// fork station so divergence happens near the fork, and the straight
// runs extend past label text so diagonals don't cross through it.
func routeDiagonal(edge metro.Edge, src, tgt *metro.Station, diagonalRun, curveRadius float64, isFork, isJoin func(string) bool) RoutedPath {
	sx, sy := src.X, src.Y
	tx, ty := tgt.X, tgt.Y
	sign := 1.0
	if tx < sx {
		sign = -1.0
	}
	halfDiag := diagonalRun / 2

	minStraight := layout.MinStraightEdge
	if src.IsPort || tgt.IsPort {
		minStraight = curveRadius + layout.MinStraightPort
	}

	srcMin, tgtMin := minStraight, minStraight
	if isFork(edge.Source) && strings.TrimSpace(src.Label) != "" {
		if half := float64(len(src.Label)) * layout.CharWidth / 2; half > srcMin {
			srcMin = half
		}
	}
	if isJoin(edge.Target) && strings.TrimSpace(tgt.Label) != "" {
		if half := float64(len(tgt.Label)) * layout.CharWidth / 2; half > tgtMin {
			tgtMin = half
		}
	}

	var midX float64
	if isFork(edge.Source) {
		midX = sx + sign*(srcMin+halfDiag)
	} else {
		midX = (sx + tx) / 2
	}
	diagStart := midX - sign*halfDiag
	diagEnd := midX + sign*halfDiag

	if sign > 0 {
		diagStart = math.Max(diagStart, sx+srcMin)
		diagEnd = math.Min(diagEnd, tx-tgtMin)
		if diagEnd < diagStart {
			mid := (diagStart + diagEnd) / 2
			diagStart, diagEnd = mid, mid
		}
	} else {
		diagStart = math.Min(diagStart, sx-srcMin)
		diagEnd = math.Max(diagEnd, tx+tgtMin)
		if diagEnd > diagStart {
			mid := (diagStart + diagEnd) / 2
			diagStart, diagEnd = mid, mid
		}
	}

	return RoutedPath{
		Edge:   edge,
		LineID: edge.LineID,
		Points: []Point{{sx, sy}, {diagStart, sy}, {diagEnd, ty}, {tx, ty}},
	}
}

// routeInterSection routes one port/junction-to-port/junction edge.
func routeInterSection(g *metro.MetroGraph, edge metro.Edge, src, tgt *metro.Station,
	offsets Offsets, bundleInfo map[edgeKey]bundleSlot,
	bottomExitJunctions map[string]bool, bottomExitJunctionPorts map[string]string,
	tbSections, tbRightEntry map[string]bool,
	curveRadius, offsetStep float64, maxOffsetAt func(string) float64) RoutedPath {

	sx, sy := src.X, src.Y
	tx, ty := tgt.X, tgt.Y
	dx := tx - sx
	dy := ty - sy

	slot, ok := bundleInfo[edgeKey{edge.Source, edge.Target, edge.LineID}]
	if !ok {
		slot = bundleSlot{0, 1}
	}
	i, n := slot.index, slot.count

	srcPort := g.Port(edge.Source)
	srcIsTBBottom := srcPort != nil && !srcPort.IsEntry &&
		srcPort.Side == metro.SideBottom && tbSections[src.SectionID]

	switch {
	case math.Abs(dy) < layout.CoordToleranceFine:
		return RoutedPath{
			Edge:           edge,
			LineID:         edge.LineID,
			Points:         []Point{{sx, sy}, {tx, ty}},
			IsInterSection: true,
		}

	case srcIsTBBottom:
		// Vertical drop between sections. RIGHT-entry TB sections keep
		// the non-reversed offset; others reverse it.
		srcOff := offsets.Get(edge.Source, edge.LineID)
		xOff := srcOff
		if !tbRightEntry[src.SectionID] {
			xOff = ReversedOffset(srcOff, maxOffsetAt(edge.Source))
		}
		return RoutedPath{
			Edge:           edge,
			LineID:         edge.LineID,
			Points:         []Point{{sx + xOff, sy}, {tx + xOff, ty}},
			IsInterSection: true,
			OffsetsApplied: true,
		}

	case math.Abs(dx) < layout.CoordTolerance:
		return RoutedPath{
			Edge:           edge,
			LineID:         edge.LineID,
			Points:         []Point{{sx, sy}, {tx, ty}},
			IsInterSection: true,
		}

	case bottomExitJunctions[edge.Source]:
		// Vertical-first L from a bottom exit junction, reusing the
		// exit port's offsets so the drop lines up with the segment
		// above the junction.
		exitPID := bottomExitJunctionPorts[edge.Source]
		srcOff := offsets.Get(exitPID, edge.LineID)
		var xOff float64
		if es := g.Station(exitPID); es != nil && tbRightEntry[es.SectionID] {
			xOff = srcOff
		} else {
			xOff = ReversedOffset(srcOff, maxOffsetAt(exitPID))
		}
		// The target entry offset is applied here because the source
		// offsets are already baked in.
		tgtOff := offsets.Get(edge.Target, edge.LineID)
		return RoutedPath{
			Edge:   edge,
			LineID: edge.LineID,
			Points: []Point{
				{sx + xOff, sy},
				{sx + xOff, ty + tgtOff},
				{tx, ty + tgtOff},
			},
			IsInterSection: true,
			OffsetsApplied: true,
			CurveRadii:     []float64{curveRadius + xOff},
		}
	}

	if path, ok := routeBypass(g, edge, src, tgt, i, curveRadius); ok {
		return path
	}

	// Standard L-shape through a vertical channel in the inter-column
	// gap. Top-to-bottom ordering maps to left-to-right when the bundle
	// turns upward and right-to-left when it turns downward, keeping
	// the outside line on the largest radius at both corners.
	delta, rFirst, rSecond := LShapeRadii(i, n, dy > 0, offsetStep, curveRadius)
	maxR := curveRadius + float64(n-1)*offsetStep
	midX := interColumnChannelX(g, src, tgt, sx, tx, dx, maxR, offsetStep)
	vx := midX + delta
	return RoutedPath{
		Edge:   edge,
		LineID: edge.LineID,
		Points: []Point{
			{sx, sy},
			{vx, sy},
			{vx, ty},
			{tx, ty},
		},
		IsInterSection: true,
		CurveRadii:     []float64{rFirst, rSecond},
	}
}

// routeBypass routes an edge whose target section is two or more grid
// columns past the source, with another section occupying a column in
// between: a six-point U-shape that drops below the lowest intervening
// section, crosses the gap, and rises into the target. Multiple bypass
// lines sharing the same gap nest below each other by their bundle
// index. Returns false when the edge doesn't need a bypass.
func routeBypass(g *metro.MetroGraph, edge metro.Edge, src, tgt *metro.Station, slotIndex int, curveRadius float64) (RoutedPath, bool) {
	if src.SectionID == "" || tgt.SectionID == "" {
		return RoutedPath{}, false
	}
	srcSec, tgtSec := g.Section(src.SectionID), g.Section(tgt.SectionID)
	if srcSec == nil || tgtSec == nil {
		return RoutedPath{}, false
	}

	loCol, hiCol := srcSec.GridCol, tgtSec.GridCol
	if loCol > hiCol {
		loCol, hiCol = hiCol, loCol
	}
	if hiCol-loCol < 2 {
		return RoutedPath{}, false
	}

	// The U is only needed when a section actually blocks the direct
	// channel; an empty span routes as a plain L-shape.
	lowest := math.Inf(-1)
	blocked := false
	for _, sec := range g.Sections() {
		if sec.GridCol <= loCol || sec.GridCol >= hiCol || sec.BboxH <= 0 {
			continue
		}
		blocked = true
		if bottom := sec.BboxY + sec.BboxH; bottom > lowest {
			lowest = bottom
		}
	}
	if !blocked {
		return RoutedPath{}, false
	}

	sx, sy := src.X, src.Y
	tx, ty := tgt.X, tgt.Y
	nest := float64(slotIndex) * layout.BypassNestStep
	dipY := lowest + layout.BypassClearance + nest

	// Vertical channels sit in the gaps flanking the blocked span,
	// pushed outward by the nesting offset so nested bypasses don't
	// share an X.
	var chanSrcX, chanTgtX float64
	if tx > sx {
		chanSrcX = (columnRightEdge(g, srcSec.GridCol, sx)+columnLeftEdge(g, srcSec.GridCol+1, tx))/2 - nest
		chanTgtX = (columnRightEdge(g, tgtSec.GridCol-1, sx)+columnLeftEdge(g, tgtSec.GridCol, tx))/2 + nest
	} else {
		chanSrcX = (columnLeftEdge(g, srcSec.GridCol, sx)+columnRightEdge(g, srcSec.GridCol-1, tx))/2 + nest
		chanTgtX = (columnLeftEdge(g, tgtSec.GridCol+1, sx)+columnRightEdge(g, tgtSec.GridCol, tx))/2 - nest
	}

	r := curveRadius + nest
	return RoutedPath{
		Edge:   edge,
		LineID: edge.LineID,
		Points: []Point{
			{sx, sy},
			{chanSrcX, sy},
			{chanSrcX, dipY},
			{chanTgtX, dipY},
			{chanTgtX, ty},
			{tx, ty},
		},
		IsInterSection: true,
		CurveRadii:     []float64{r, r, r, r},
	}, true
}
