package layout

import (
	"sort"
	"strings"

	"github.com/matzehuels/metromap/pkg/metro"
)

// Config carries the spacing knobs of the layout engine. Zero values
// fall back to the package defaults.
type Config struct {
	XSpacing        float64
	YSpacing        float64
	XOffset         float64
	YOffset         float64
	SectionXPadding float64
	SectionYPadding float64
	SectionXGap     float64
	SectionYGap     float64
}

func (c Config) withDefaults() Config {
	if c.XSpacing <= 0 {
		c.XSpacing = XSpacing
	}
	if c.YSpacing <= 0 {
		c.YSpacing = YSpacing
	}
	if c.XOffset <= 0 {
		c.XOffset = XOffset
	}
	if c.YOffset <= 0 {
		c.YOffset = YOffset
	}
	if c.SectionXPadding <= 0 {
		c.SectionXPadding = SectionXPadding
	}
	if c.SectionYPadding <= 0 {
		c.SectionYPadding = SectionYPadding
	}
	if c.SectionXGap <= 0 {
		c.SectionXGap = SectionXGap
	}
	if c.SectionYGap <= 0 {
		c.SectionYGap = SectionYGap
	}
	return c
}

// ComputeLayout assigns global coordinates to every station. Flat graphs
// (no sections) get a single layer/track pass; sectioned graphs run the
// section-first pipeline: each section laid out independently, sections
// placed on the grid, local coordinates translated to global, ports
// positioned on boundaries, junctions dropped into inter-section gaps,
// and entry/exit ports aligned for straight horizontal runs.
func ComputeLayout(g *metro.MetroGraph, cfg Config) error {
	cfg = cfg.withDefaults()
	if g.SectionCount() == 0 {
		return computeFlatLayout(g, cfg)
	}
	return computeSectionLayout(g, cfg)
}

func computeFlatLayout(g *metro.MetroGraph, cfg Config) error {
	layers, err := AssignLayers(g)
	if err != nil {
		return err
	}
	if len(layers) == 0 {
		return nil
	}
	tracks := AssignTracks(g, layers, LineGap)

	trackRank := rankTracks(tracks)
	layerExtra := computeForkJoinGaps(g, layers, cfg.XSpacing, nil, nil)

	for _, st := range g.Stations() {
		st.Layer = layers[st.ID]
		st.Track = tracks[st.ID]
		st.X = cfg.XOffset + float64(st.Layer)*cfg.XSpacing + layerExtra[st.Layer]
		st.Y = cfg.YOffset + float64(trackRank[st.Track])*cfg.YSpacing
	}
	return nil
}

// rankTracks compacts raw track values to consecutive integers so
// widely spaced line priorities don't inflate the vertical spread.
func rankTracks(tracks map[string]float64) map[float64]int {
	unique := make([]float64, 0, len(tracks))
	seen := make(map[float64]bool)
	for _, t := range tracks {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	sort.Float64s(unique)
	rank := make(map[float64]int, len(unique))
	for i, t := range unique {
		rank[t] = i
	}
	return rank
}

func computeSectionLayout(g *metro.MetroGraph, cfg Config) error {
	// Phase 2: lay out each section independently, real stations only.
	subgraphs := make(map[string]*metro.MetroGraph)
	for _, sec := range g.Sections() {
		sub, err := layoutSingleSection(g, sec, cfg)
		if err != nil {
			return err
		}
		if sub != nil {
			subgraphs[sec.ID] = sub
		}
	}

	// Phase 3: place sections on the canvas.
	PlaceSections(g, cfg.SectionXGap, cfg.SectionYGap)

	// Phase 4: translate local coordinates to global.
	for _, sec := range g.Sections() {
		sub := subgraphs[sec.ID]
		if sub == nil {
			continue
		}
		for _, local := range sub.Stations() {
			st := g.Station(local.ID)
			if st == nil {
				continue
			}
			st.Layer = local.Layer
			st.Track = local.Track
			st.X = local.X + sec.OffsetX + cfg.XOffset
			st.Y = local.Y + sec.OffsetY + cfg.YOffset
		}
		sec.BboxX += sec.OffsetX + cfg.XOffset
		sec.BboxY += sec.OffsetY + cfg.YOffset
	}

	// Phase 5: position ports on section boundaries.
	for _, sec := range g.Sections() {
		PositionPorts(sec, g)
	}

	// Phase 6: junctions into the inter-section gaps.
	positionJunctions(g)

	// Phase 7 and 8: port alignment for straight horizontal runs.
	alignEntryPorts(g)
	alignExitPorts(g)

	// Phase 9: exit alignment may have moved fold exit ports, so place
	// junctions again to match.
	positionJunctions(g)

	return nil
}

// layoutSingleSection lays out one section's internal stations and
// computes its local bbox. Returns nil when the section has nothing to
// lay out.
func layoutSingleSection(g *metro.MetroGraph, sec *metro.Section, cfg Config) (*metro.MetroGraph, error) {
	sub := buildSectionSubgraph(g, sec)
	if sub.StationCount() == 0 {
		return nil, nil
	}

	layers, err := AssignLayers(sub)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, nil
	}
	tracks := AssignTracks(sub, layers, LineGap)
	trackRank := rankTracks(tracks)

	// Fork/join detection uses the full graph so port-touching edges
	// count as divergences.
	members := stringSet(sec.StationIDs)
	layerExtra := computeForkJoinGaps(sub, layers, cfg.XSpacing, g, members)

	for _, st := range sub.Stations() {
		st.Layer = layers[st.ID]
		st.Track = tracks[st.ID]
		if sec.Direction == metro.DirTB {
			st.X = float64(trackRank[st.Track]) * cfg.XSpacing
			st.Y = float64(st.Layer)*cfg.YSpacing + layerExtra[st.Layer]
		} else {
			st.X = float64(st.Layer)*cfg.XSpacing + layerExtra[st.Layer]
			st.Y = float64(trackRank[st.Track]) * cfg.YSpacing
		}
	}

	normalizeMin(sub, false)
	if sec.Direction == metro.DirRL {
		mirrorRL(sub)
	}
	normalizeMin(sub, true)
	enforceMinExtent(sub, sec, cfg.XSpacing, cfg.YSpacing)

	minX, maxX, minY, maxY := stationBounds(sub)
	sec.BboxX = minX - cfg.SectionXPadding
	sec.BboxY = minY - cfg.SectionYPadding
	sec.BboxW = (maxX - minX) + cfg.SectionXPadding*2
	sec.BboxH = (maxY - minY) + cfg.SectionYPadding*2

	adjustTBLabels(sub, sec)
	adjustTBEntryShifts(sec, sub, g, cfg.YSpacing)
	adjustLREntryInset(sec, g, cfg.XSpacing)
	adjustLRExitGap(sub, sec, g, layers, cfg.XSpacing)

	return sub, nil
}

func stationBounds(sub *metro.MetroGraph) (minX, maxX, minY, maxY float64) {
	first := true
	for _, st := range sub.Stations() {
		if first {
			minX, maxX, minY, maxY = st.X, st.X, st.Y, st.Y
			first = false
			continue
		}
		if st.X < minX {
			minX = st.X
		}
		if st.X > maxX {
			maxX = st.X
		}
		if st.Y < minY {
			minY = st.Y
		}
		if st.Y > maxY {
			maxY = st.Y
		}
	}
	return
}

// normalizeMin shifts all stations so the minimum coordinate on the
// chosen axis is zero.
func normalizeMin(sub *metro.MetroGraph, xAxis bool) {
	stations := sub.Stations()
	if len(stations) == 0 {
		return
	}
	minX, _, minY, _ := stationBounds(sub)
	if xAxis {
		if minX != 0 {
			for _, st := range stations {
				st.X -= minX
			}
		}
	} else if minY != 0 {
		for _, st := range stations {
			st.Y -= minY
		}
	}
}

// mirrorRL flips X so layer 0 is rightmost, anchoring on labeled
// non-terminus stations so extra terminus layers extend leftward without
// shifting the entry point.
func mirrorRL(sub *metro.MetroGraph) {
	var anchorMax float64
	found := false
	for _, st := range sub.Stations() {
		if st.IsTerminus && strings.TrimSpace(st.Label) == "" {
			continue
		}
		if !found || st.X > anchorMax {
			anchorMax = st.X
			found = true
		}
	}
	if !found {
		_, anchorMax, _, _ = stationBounds(sub)
	}
	for _, st := range sub.Stations() {
		st.X = anchorMax - st.X
	}
}

// enforceMinExtent guarantees a minimum inner extent along the flow axis
// so stations sit on visible track.
func enforceMinExtent(sub *metro.MetroGraph, sec *metro.Section, xSpacing, ySpacing float64) {
	minX, maxX, minY, maxY := stationBounds(sub)
	if sec.Direction == metro.DirTB {
		if inner := maxY - minY; inner < ySpacing {
			shift := (ySpacing - inner) / 2
			for _, st := range sub.Stations() {
				st.Y += shift
			}
		}
		return
	}
	if inner := maxX - minX; inner < xSpacing {
		shift := (xSpacing - inner) / 2
		for _, st := range sub.Stations() {
			st.X += shift
		}
	}
}

// adjustTBLabels widens TB sections and shifts stations right so the
// leftward-extending labels fit inside the bbox.
func adjustTBLabels(sub *metro.MetroGraph, sec *metro.Section) {
	if sec.Direction != metro.DirTB {
		return
	}

	minX, _, _, _ := stationBounds(sub)
	maxLabelExtent := 0.0
	for _, st := range sub.Stations() {
		if strings.TrimSpace(st.Label) == "" {
			continue
		}
		nLines := len(sub.StationLines(st.ID))
		offsetSpan := float64(nLines-1) * TBLineYOffset
		extent := offsetSpan/2 + 11 + float64(len(st.Label))*CharWidth
		if extent > maxLabelExtent {
			maxLabelExtent = extent
		}
	}
	needLeft := maxLabelExtent + LabelPad
	haveLeft := minX - sec.BboxX
	if needLeft > haveLeft {
		extra := needLeft - haveLeft
		for _, st := range sub.Stations() {
			st.X += extra
		}
		sec.BboxW += extra
	}
}

// adjustTBEntryShifts pushes TB section content down for perpendicular
// entries (so the first station isn't the elbow) and for cross-column
// TOP entries (room for the L-shape).
func adjustTBEntryShifts(sec *metro.Section, sub *metro.MetroGraph, g *metro.MetroGraph, ySpacing float64) {
	if sec.Direction != metro.DirTB {
		return
	}

	hasPerpEntry := false
	for _, pid := range sec.EntryPorts {
		if port := g.Port(pid); port != nil && port.Side.Horizontal() {
			hasPerpEntry = true
			break
		}
	}
	if hasPerpEntry {
		shift := ySpacing * EntryShiftTB
		for _, st := range sub.Stations() {
			st.Y += shift
		}
		sec.BboxH += shift
	}

	hasCrossColTopEntry := false
	for _, pid := range sec.EntryPorts {
		port := g.Port(pid)
		if port == nil || port.Side != metro.SideTop {
			continue
		}
		for _, e := range g.Edges() {
			if e.Target != pid {
				continue
			}
			src := g.Station(e.Source)
			if src == nil || src.SectionID == "" {
				continue
			}
			if srcSec := g.Section(src.SectionID); srcSec != nil && srcSec.GridCol != sec.GridCol {
				hasCrossColTopEntry = true
				break
			}
		}
		if hasCrossColTopEntry {
			break
		}
	}
	if hasCrossColTopEntry {
		shift := ySpacing * EntryShiftTBCross
		for _, st := range sub.Stations() {
			st.Y += shift
		}
		sec.BboxH += shift
	}
}

// adjustLREntryInset widens LR/RL sections with TOP/BOTTOM entries so
// the entry curve fits.
func adjustLREntryInset(sec *metro.Section, g *metro.MetroGraph, xSpacing float64) {
	if sec.Direction == metro.DirTB {
		return
	}
	for _, pid := range sec.EntryPorts {
		if port := g.Port(pid); port != nil && port.Side.Vertical() {
			sec.BboxW += xSpacing * EntryInsetLR
			return
		}
	}
}

// adjustLRExitGap adds label clearance on the flow-side exit of LR/RL
// sections.
func adjustLRExitGap(sub *metro.MetroGraph, sec *metro.Section, g *metro.MetroGraph, layers map[string]int, xSpacing float64) {
	if sec.Direction == metro.DirTB {
		return
	}

	flowExitSide := metro.SideRight
	if sec.Direction == metro.DirRL {
		flowExitSide = metro.SideLeft
	}
	hasFlowExit := false
	for _, pid := range sec.ExitPorts {
		if port := g.Port(pid); port != nil && port.Side == flowExitSide {
			hasFlowExit = true
			break
		}
	}
	if !hasFlowExit || len(layers) == 0 {
		return
	}

	top := maxLayer(layers)
	maxLabelHalf := 0.0
	for _, st := range sub.Stations() {
		if layers[st.ID] != top || strings.TrimSpace(st.Label) == "" {
			continue
		}
		if half := float64(len(st.Label)) * CharWidth / 2; half > maxLabelHalf {
			maxLabelHalf = half
		}
	}
	exitGap := xSpacing * ExitGapMultiplier
	if maxLabelHalf > exitGap {
		exitGap = maxLabelHalf
	}
	if sec.Direction == metro.DirRL {
		// Clearance goes on the left (exit) side: shift content right.
		for _, st := range sub.Stations() {
			st.X += exitGap
		}
	}
	sec.BboxW += exitGap
}

// positionJunctions drops each junction into the inter-section gap near
// its feeding exit port, at the exit port's Y so lines run straight to
// the divergence point. BOTTOM exits place the junction below instead,
// continuing the vertical drop.
func positionJunctions(g *metro.MetroGraph) {
	for _, jid := range g.Junctions() {
		junction := g.Station(jid)
		if junction == nil {
			continue
		}

		var exitPortID string
		exitFound := false
		var exitX, exitY float64
		var entryXs []float64

		for _, e := range g.Edges() {
			if e.Target == jid {
				if src := g.Station(e.Source); src != nil && src.IsPort {
					exitX, exitY = src.X, src.Y
					exitPortID = e.Source
					exitFound = true
				}
			}
			if e.Source == jid {
				if tgt := g.Station(e.Target); tgt != nil && tgt.IsPort {
					entryXs = append(entryXs, tgt.X)
				}
			}
		}
		if !exitFound || len(entryXs) == 0 {
			continue
		}

		if port := g.Port(exitPortID); port != nil && port.Side == metro.SideBottom {
			junction.X = exitX
			junction.Y = exitY + JunctionMargin
			continue
		}

		nearest := entryXs[0]
		for _, x := range entryXs[1:] {
			if absFloat(x-exitX) < absFloat(nearest-exitX) {
				nearest = x
			}
		}
		dir := 1.0
		if nearest < exitX {
			dir = -1.0
		}
		junction.X = exitX + dir*JunctionMargin
		junction.Y = exitY
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// incomingSourceSection resolves the section feeding an edge source,
// looking through junctions to the upstream section.
func incomingSourceSection(g *metro.MetroGraph, sourceID string) string {
	if g.IsJunction(sourceID) {
		for _, e2 := range g.Edges() {
			if e2.Target != sourceID {
				continue
			}
			if s2 := g.Station(e2.Source); s2 != nil && s2.SectionID != "" {
				return s2.SectionID
			}
		}
		return ""
	}
	if st := g.Station(sourceID); st != nil {
		return st.SectionID
	}
	return ""
}

// alignEntryPorts aligns entry ports with their incoming connection so
// inter-section runs are straight. LEFT/RIGHT ports take the source's Y
// when both sections share a grid row; TOP/BOTTOM ports take the
// source's X for same-column vertical drops, or converge at the nearest
// source level for cross-column entries.
func alignEntryPorts(g *metro.MetroGraph) {
	for _, pid := range g.PortIDs() {
		port := g.Port(pid)
		if !port.IsEntry {
			continue
		}
		entrySec := g.Section(port.SectionID)
		if entrySec == nil {
			continue
		}

		if port.Side.Horizontal() {
			for _, e := range g.Edges() {
				if e.Target != pid {
					continue
				}
				src := g.Station(e.Source)
				if src == nil || !(src.IsPort || g.IsJunction(e.Source)) {
					continue
				}
				srcSec := g.Section(incomingSourceSection(g, e.Source))
				if srcSec == nil {
					continue
				}
				if entrySec.GridRow == srcSec.GridRow {
					// Tall rowspan sources can sit far outside this
					// section; skip alignment then.
					if src.Y < entrySec.BboxY || src.Y > entrySec.BboxY+entrySec.BboxH {
						break
					}
					targetY := src.Y
					if entrySec.Direction == metro.DirTB {
						targetY = clampTBEntryPort(g, entrySec, targetY, e, src)
					}
					if st := g.Station(pid); st != nil {
						st.Y = targetY
					}
					port.Y = targetY
				}
				break
			}
			continue
		}

		// TOP/BOTTOM entry.
		type source struct {
			st        *metro.Station
			sectionID string
		}
		var sources []source
		for _, e := range g.Edges() {
			if e.Target != pid {
				continue
			}
			src := g.Station(e.Source)
			if src == nil || !(src.IsPort || g.IsJunction(e.Source)) {
				continue
			}
			sources = append(sources, source{src, incomingSourceSection(g, e.Source)})
		}
		if len(sources) == 0 {
			continue
		}

		isCrossColumn := false
		for _, s := range sources {
			srcSec := g.Section(s.sectionID)
			if srcSec == nil {
				continue
			}
			if !colRangesOverlap(entrySec, srcSec) {
				isCrossColumn = true
				break
			}
		}

		if isCrossColumn {
			// Converge at the closest source level instead of running
			// all the way to the bbox boundary.
			targetY := sources[0].st.Y
			for _, s := range sources[1:] {
				if port.Side == metro.SideTop {
					if s.st.Y < targetY {
						targetY = s.st.Y
					}
				} else if s.st.Y > targetY {
					targetY = s.st.Y
				}
			}
			if targetY < entrySec.BboxY {
				targetY = entrySec.BboxY
			}
			if max := entrySec.BboxY + entrySec.BboxH; targetY > max {
				targetY = max
			}
			if st := g.Station(pid); st != nil {
				st.Y = targetY
			}
			port.Y = targetY
			// TB sections want TOP/BOTTOM ports sharing X with internal
			// stations (flow direction); only LR/RL ports get nudged off
			// station markers.
			if entrySec.Direction != metro.DirTB {
				nudgePortFromStations(pid, entrySec, g)
			}
		} else {
			src := sources[0].st
			if st := g.Station(pid); st != nil {
				st.X = src.X
			}
			port.X = src.X
		}
	}
}

func colRangesOverlap(a, b *metro.Section) bool {
	aEnd := a.GridCol + a.GridColSpan - 1
	bEnd := b.GridCol + b.GridColSpan - 1
	return a.GridCol <= bEnd && b.GridCol <= aEnd
}

// nudgePortFromStations moves a TOP/BOTTOM port toward the entry side
// when it sits on top of an internal station marker.
func nudgePortFromStations(portID string, sec *metro.Section, g *metro.MetroGraph) {
	st := g.Station(portID)
	port := g.Port(portID)
	if st == nil || port == nil {
		return
	}

	var internalXs []float64
	for _, sid := range sec.InternalStations() {
		if is := g.Station(sid); is != nil && !is.IsPort {
			internalXs = append(internalXs, is.X)
		}
	}
	if len(internalXs) == 0 {
		return
	}

	onStation := false
	for _, ix := range internalXs {
		if absFloat(st.X-ix) < StationElbowTolerance {
			onStation = true
			break
		}
	}
	if !onStation {
		return
	}

	var newX float64
	if sec.Direction == metro.DirRL {
		newX = internalXs[0]
		for _, ix := range internalXs[1:] {
			if ix > newX {
				newX = ix
			}
		}
		newX += StationElbowTolerance
		if limit := sec.BboxX + sec.BboxW - StationElbowTolerance; newX > limit {
			newX = limit
		}
	} else {
		newX = internalXs[0]
		for _, ix := range internalXs[1:] {
			if ix < newX {
				newX = ix
			}
		}
		newX -= StationElbowTolerance
		if limit := sec.BboxX + StationElbowTolerance; newX < limit {
			newX = limit
		}
	}

	st.X = newX
	port.X = newX
}

// alignExitPorts aligns LEFT/RIGHT exit ports of fold sections (TB or
// row-spanning) with their target's Y so the inter-section run at the
// return row is straight. Fan-outs through junctions are left alone.
func alignExitPorts(g *metro.MetroGraph) {
	for _, pid := range g.PortIDs() {
		port := g.Port(pid)
		if port.IsEntry || !port.Side.Horizontal() {
			continue
		}
		exitSec := g.Section(port.SectionID)
		if exitSec == nil {
			continue
		}
		if exitSec.GridRowSpan <= 1 && exitSec.Direction != metro.DirTB {
			continue
		}

		for _, e := range g.Edges() {
			if e.Source != pid {
				continue
			}
			tgt := g.Station(e.Target)
			if tgt == nil {
				continue
			}
			if g.IsJunction(e.Target) {
				break
			}
			if tgt.IsPort {
				if tgtPort := g.Port(tgt.ID); tgtPort != nil && tgtPort.Side.Vertical() {
					break
				}
				if tgt.Y < exitSec.BboxY || tgt.Y > exitSec.BboxY+exitSec.BboxH {
					break
				}
				if st := g.Station(pid); st != nil {
					st.Y = tgt.Y
				}
				port.Y = tgt.Y
			}
			break
		}
	}
}

// clampTBEntryPort keeps a TB section's perpendicular entry above the
// first internal station so the direction-change curve has room,
// pulling the source up with it to keep the horizontal run straight.
func clampTBEntryPort(g *metro.MetroGraph, entrySec *metro.Section, targetY float64, e metro.Edge, src *metro.Station) float64 {
	var internalYs []float64
	for _, sid := range entrySec.InternalStations() {
		if st := g.Station(sid); st != nil && !st.IsPort {
			internalYs = append(internalYs, st.Y)
		}
	}
	if len(internalYs) == 0 {
		return targetY
	}

	firstY := internalYs[0]
	for _, y := range internalYs[1:] {
		if y < firstY {
			firstY = y
		}
	}
	maxY := firstY - MinPortStationGap
	if targetY <= maxY {
		return targetY
	}

	// Prefer the topmost source-side station feeding the exit port so
	// the line exits horizontally.
	exitPid := e.Source
	if g.IsJunction(e.Source) {
		for _, e2 := range g.Edges() {
			if e2.Target != e.Source {
				continue
			}
			if ep := g.Station(e2.Source); ep != nil && ep.IsPort {
				exitPid = e2.Source
				break
			}
		}
	}

	topSrcY := 0.0
	topFound := false
	for _, e3 := range g.Edges() {
		if e3.Target != exitPid {
			continue
		}
		s3 := g.Station(e3.Source)
		if s3 == nil || s3.IsPort || g.IsJunction(e3.Source) {
			continue
		}
		if !topFound || s3.Y < topSrcY {
			topSrcY = s3.Y
			topFound = true
		}
	}

	if topFound && topSrcY < maxY {
		targetY = topSrcY
	} else {
		targetY = maxY
	}

	src.Y = targetY
	if src.IsPort {
		if p := g.Port(e.Source); p != nil {
			p.Y = targetY
		}
	}
	if g.IsJunction(e.Source) {
		for _, e2 := range g.Edges() {
			if e2.Target != e.Source {
				continue
			}
			if ep := g.Station(e2.Source); ep != nil && ep.IsPort {
				ep.Y = targetY
				if p := g.Port(e2.Source); p != nil {
					p.Y = targetY
				}
			}
		}
	}

	return targetY
}

// buildSectionSubgraph copies a section's real stations and the edges
// between them into a scratch graph. Ports and port-touching edges stay
// out; they are positioned on the boundary afterwards.
func buildSectionSubgraph(g *metro.MetroGraph, sec *metro.Section) *metro.MetroGraph {
	sub := metro.NewGraph()
	for _, lid := range g.LineOrder() {
		if l := g.Line(lid); l != nil {
			_ = sub.AddLine(*l)
		}
	}

	portIDs := stringSet(append(append([]string(nil), sec.EntryPorts...), sec.ExitPorts...))

	real := make(map[string]bool)
	for _, sid := range sec.StationIDs {
		if portIDs[sid] {
			continue
		}
		st := g.Station(sid)
		if st == nil || st.IsPort {
			continue
		}
		_ = sub.AddStation(metro.Station{
			ID:         st.ID,
			Label:      st.Label,
			SectionID:  st.SectionID,
			IsTerminus: st.IsTerminus,
		})
		real[sid] = true
	}

	for _, e := range g.Edges() {
		if real[e.Source] && real[e.Target] {
			_ = sub.AddEdge(metro.Edge{Source: e.Source, Target: e.Target, LineID: e.LineID})
		}
	}

	return sub
}

// computeForkJoinGaps adds extra X per layer after forks and before
// joins so labels aren't obscured by diagonal crossings. When fullGraph
// and members are given, detection runs over all edges inside the
// section so port-touching edges count as divergences.
func computeForkJoinGaps(sub *metro.MetroGraph, layers map[string]int, xSpacing float64, fullGraph *metro.MetroGraph, members map[string]bool) map[int]float64 {
	outTargets := make(map[string][]string)
	inSources := make(map[string][]string)

	edges := sub.Edges()
	if fullGraph != nil && members != nil {
		edges = nil
		for _, e := range fullGraph.Edges() {
			if members[e.Source] && members[e.Target] {
				edges = append(edges, e)
			}
		}
	}
	for _, e := range edges {
		outTargets[e.Source] = appendUnique(outTargets[e.Source], e.Target)
		inSources[e.Target] = appendUnique(inSources[e.Target], e.Source)
	}

	forkLayers := make(map[int]bool)
	joinLayers := make(map[int]bool)
	for sid, targets := range outTargets {
		if len(targets) > 1 {
			if l, ok := layers[sid]; ok {
				forkLayers[l] = true
			}
		}
	}
	for sid, sources := range inSources {
		if len(sources) > 1 {
			if l, ok := layers[sid]; ok {
				joinLayers[l] = true
			}
		}
	}
	if len(forkLayers) == 0 && len(joinLayers) == 0 {
		return map[int]float64{}
	}

	top := maxLayer(layers)
	baseGap := xSpacing * ExitGapMultiplier

	// The gap must reach past the widest label on the fork/join layer so
	// the diagonal starts beyond the text.
	layerGap := make(map[int]float64)
	for layer := 0; layer <= top; layer++ {
		if !forkLayers[layer] && !joinLayers[layer] {
			continue
		}
		maxLabelHalf := 0.0
		for _, st := range sub.Stations() {
			if layers[st.ID] != layer || strings.TrimSpace(st.Label) == "" {
				continue
			}
			if half := float64(len(st.Label)) * CharWidth / 2; half > maxLabelHalf {
				maxLabelHalf = half
			}
		}
		gap := baseGap
		if maxLabelHalf > gap {
			gap = maxLabelHalf
		}
		layerGap[layer] = gap
	}

	cumulative := 0.0
	layerExtra := make(map[int]float64, top+1)
	for layer := 0; layer <= top; layer++ {
		if joinLayers[layer] {
			cumulative += layerGap[layer]
		}
		layerExtra[layer] = cumulative
		if forkLayers[layer] {
			cumulative += layerGap[layer]
		}
	}
	return layerExtra
}
