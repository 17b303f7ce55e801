// Package metro defines the graph model shared by every layout stage:
// stations connected by edges, edges grouped into lines, stations grouped
// into sections, plus the synthetic ports and junctions the layout engine
// adds while routing between sections.
//
// The model is bookkeeping only - all behavior lives in pkg/layout and
// pkg/layout/route. MetroGraph is the single mutable object threaded
// through the layout pipeline.
//
// # Ordering
//
// Several layout invariants (tie-breaking, bundle ordering, fold-column
// selection) depend on iteration order, so the graph preserves insertion
// order for stations and sections and declaration order for lines. All
// accessors iterate in those orders; none depend on map iteration.
//
// MetroGraph is not safe for concurrent use.
package metro

import "errors"

var (
	// ErrInvalidStationID is returned by [MetroGraph.AddStation] when the
	// station ID is empty.
	ErrInvalidStationID = errors.New("station ID must not be empty")

	// ErrDuplicateStation is returned by [MetroGraph.AddStation] when a
	// station with the same ID already exists.
	ErrDuplicateStation = errors.New("duplicate station ID")

	// ErrUnknownSourceStation is returned by [MetroGraph.AddEdge] when the
	// source station does not exist.
	ErrUnknownSourceStation = errors.New("unknown source station")

	// ErrUnknownTargetStation is returned by [MetroGraph.AddEdge] when the
	// target station does not exist.
	ErrUnknownTargetStation = errors.New("unknown target station")

	// ErrDuplicateSection is returned by [MetroGraph.AddSection] when a
	// section with the same ID already exists.
	ErrDuplicateSection = errors.New("duplicate section ID")

	// ErrDuplicateLine is returned by [MetroGraph.AddLine] when a line
	// with the same ID already exists.
	ErrDuplicateLine = errors.New("duplicate line ID")
)

// GridOverride pins a section to an explicit grid cell.
type GridOverride struct {
	Col     int
	Row     int
	RowSpan int
	ColSpan int
}

// MetroGraph is the complete metro map definition: global settings plus
// lines, stations, edges, sections, ports, and junctions.
type MetroGraph struct {
	Title string
	Style string

	// GridOverrides pins sections to explicit grid cells. Automatic grid
	// inference fills this in for sections it places, so after layout it
	// reflects the final grid for every section.
	GridOverrides map[string]GridOverride

	lines     map[string]*Line
	lineOrder []string

	stations     map[string]*Station
	stationOrder []string

	edges []Edge

	sections     map[string]*Section
	sectionOrder []string

	ports     map[string]*Port
	portOrder []string

	junctions    map[string]bool
	junctionList []string

	explicitDirections map[string]bool

	// stationLines maps station ID to the distinct line IDs touching it,
	// in first-touch edge order. Maintained by AddEdge.
	stationLines map[string][]string
}

// NewGraph creates an empty MetroGraph.
func NewGraph() *MetroGraph {
	return &MetroGraph{
		GridOverrides:      make(map[string]GridOverride),
		lines:              make(map[string]*Line),
		stations:           make(map[string]*Station),
		sections:           make(map[string]*Section),
		ports:              make(map[string]*Port),
		junctions:          make(map[string]bool),
		explicitDirections: make(map[string]bool),
		stationLines:       make(map[string][]string),
	}
}

// AddLine registers a metro line. Declaration order determines the line's
// priority for track and bundle-offset assignment.
func (g *MetroGraph) AddLine(l Line) error {
	if _, exists := g.lines[l.ID]; exists {
		return ErrDuplicateLine
	}
	line := l
	g.lines[line.ID] = &line
	g.lineOrder = append(g.lineOrder, line.ID)
	return nil
}

// AddStation adds a station. Returns ErrInvalidStationID for an empty ID
// or ErrDuplicateStation when the ID is already in use.
func (g *MetroGraph) AddStation(s Station) error {
	if s.ID == "" {
		return ErrInvalidStationID
	}
	if _, exists := g.stations[s.ID]; exists {
		return ErrDuplicateStation
	}
	st := s
	g.stations[st.ID] = &st
	g.stationOrder = append(g.stationOrder, st.ID)
	return nil
}

// AddEdge adds a directed edge between two existing stations.
func (g *MetroGraph) AddEdge(e Edge) error {
	if _, ok := g.stations[e.Source]; !ok {
		return ErrUnknownSourceStation
	}
	if _, ok := g.stations[e.Target]; !ok {
		return ErrUnknownTargetStation
	}
	g.edges = append(g.edges, e)
	g.noteStationLine(e.Source, e.LineID)
	g.noteStationLine(e.Target, e.LineID)
	return nil
}

func (g *MetroGraph) noteStationLine(stationID, lineID string) {
	if lineID == "" {
		return
	}
	for _, lid := range g.stationLines[stationID] {
		if lid == lineID {
			return
		}
	}
	g.stationLines[stationID] = append(g.stationLines[stationID], lineID)
}

// AddSection registers a section. Grid fields are normalized to the
// unassigned state (-1) unless already set, and spans default to 1.
func (g *MetroGraph) AddSection(s Section) error {
	if _, exists := g.sections[s.ID]; exists {
		return ErrDuplicateSection
	}
	sec := s
	if sec.GridCol == 0 && sec.GridRow == 0 && sec.GridRowSpan == 0 && sec.GridColSpan == 0 {
		sec.GridCol, sec.GridRow = -1, -1
	}
	if sec.GridRowSpan <= 0 {
		sec.GridRowSpan = 1
	}
	if sec.GridColSpan <= 0 {
		sec.GridColSpan = 1
	}
	if sec.Number == 0 {
		sec.Number = len(g.sectionOrder) + 1
	}
	g.sections[sec.ID] = &sec
	g.sectionOrder = append(g.sectionOrder, sec.ID)
	return nil
}

// SetExplicitDirection records that a section's direction came from input
// directives; automatic direction inference leaves it untouched.
func (g *MetroGraph) SetExplicitDirection(sectionID string, d Direction) {
	if sec, ok := g.sections[sectionID]; ok {
		sec.Direction = d
		g.explicitDirections[sectionID] = true
	}
}

// HasExplicitDirection reports whether the section's direction was set
// explicitly rather than inferred.
func (g *MetroGraph) HasExplicitDirection(sectionID string) bool {
	return g.explicitDirections[sectionID]
}

// AddPort registers a port and its backing station. The station is
// created with IsPort set and appended to the owning section's entry or
// exit list and member list.
func (g *MetroGraph) AddPort(p Port) error {
	port := p
	if err := g.AddStation(Station{ID: port.ID, SectionID: port.SectionID, IsPort: true}); err != nil {
		return err
	}
	g.ports[port.ID] = &port
	g.portOrder = append(g.portOrder, port.ID)
	if sec, ok := g.sections[port.SectionID]; ok {
		sec.StationIDs = append(sec.StationIDs, port.ID)
		if port.IsEntry {
			sec.EntryPorts = append(sec.EntryPorts, port.ID)
		} else {
			sec.ExitPorts = append(sec.ExitPorts, port.ID)
		}
	}
	return nil
}

// AddJunction registers an unowned helper station used to merge or split
// edges between sections.
func (g *MetroGraph) AddJunction(id string) error {
	if err := g.AddStation(Station{ID: id, IsPort: false}); err != nil {
		return err
	}
	g.junctions[id] = true
	g.junctionList = append(g.junctionList, id)
	return nil
}

// Line returns the line with the given ID, or nil.
func (g *MetroGraph) Line(id string) *Line { return g.lines[id] }

// LineOrder returns line IDs in declaration order.
func (g *MetroGraph) LineOrder() []string { return g.lineOrder }

// SetLineOrder replaces the line ordering. Every existing line must be
// present exactly once; unknown IDs are ignored.
func (g *MetroGraph) SetLineOrder(order []string) {
	next := make([]string, 0, len(g.lineOrder))
	seen := make(map[string]bool, len(order))
	for _, lid := range order {
		if _, ok := g.lines[lid]; ok && !seen[lid] {
			next = append(next, lid)
			seen[lid] = true
		}
	}
	for _, lid := range g.lineOrder {
		if !seen[lid] {
			next = append(next, lid)
		}
	}
	g.lineOrder = next
}

// LineCount returns the number of declared lines.
func (g *MetroGraph) LineCount() int { return len(g.lines) }

// LinePriority returns a map from line ID to its index in the current
// line ordering.
func (g *MetroGraph) LinePriority() map[string]int {
	m := make(map[string]int, len(g.lineOrder))
	for i, lid := range g.lineOrder {
		m[lid] = i
	}
	return m
}

// Station returns the station with the given ID, or nil.
func (g *MetroGraph) Station(id string) *Station { return g.stations[id] }

// StationIDs returns station IDs in insertion order.
func (g *MetroGraph) StationIDs() []string { return g.stationOrder }

// Stations returns stations in insertion order. The slice elements point
// at the graph's own stations, so mutations are visible to later stages.
func (g *MetroGraph) Stations() []*Station {
	out := make([]*Station, len(g.stationOrder))
	for i, sid := range g.stationOrder {
		out[i] = g.stations[sid]
	}
	return out
}

// StationCount returns the number of stations, ports included.
func (g *MetroGraph) StationCount() int { return len(g.stations) }

// Edges returns the edge list in insertion order. The returned slice is
// the graph's own; callers must not modify it.
func (g *MetroGraph) Edges() []Edge { return g.edges }

// Section returns the section with the given ID, or nil.
func (g *MetroGraph) Section(id string) *Section { return g.sections[id] }

// SectionIDs returns section IDs in definition order.
func (g *MetroGraph) SectionIDs() []string { return g.sectionOrder }

// Sections returns sections in definition order.
func (g *MetroGraph) Sections() []*Section {
	out := make([]*Section, len(g.sectionOrder))
	for i, sid := range g.sectionOrder {
		out[i] = g.sections[sid]
	}
	return out
}

// SectionCount returns the number of sections.
func (g *MetroGraph) SectionCount() int { return len(g.sections) }

// Port returns the port with the given ID, or nil.
func (g *MetroGraph) Port(id string) *Port { return g.ports[id] }

// PortIDs returns port IDs in creation order.
func (g *MetroGraph) PortIDs() []string { return g.portOrder }

// Junctions returns junction station IDs in creation order.
func (g *MetroGraph) Junctions() []string { return g.junctionList }

// IsJunction reports whether the station is a junction.
func (g *MetroGraph) IsJunction(id string) bool { return g.junctions[id] }

// StationLines returns the distinct line IDs touching a station, sorted
// by line declaration order. Returns nil for stations with no line.
func (g *MetroGraph) StationLines(id string) []string {
	touched := g.stationLines[id]
	if len(touched) < 2 {
		return touched
	}
	set := make(map[string]bool, len(touched))
	for _, lid := range touched {
		set[lid] = true
	}
	out := make([]string, 0, len(touched))
	for _, lid := range g.lineOrder {
		if set[lid] {
			out = append(out, lid)
		}
	}
	// Lines never declared keep their edge order at the end.
	for _, lid := range touched {
		if _, known := g.lines[lid]; !known {
			out = append(out, lid)
		}
	}
	return out
}

// LineStations returns station IDs on a line in first-appearance edge
// order.
func (g *MetroGraph) LineStations(lineID string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range g.edges {
		if e.LineID != lineID {
			continue
		}
		if !seen[e.Source] {
			out = append(out, e.Source)
			seen[e.Source] = true
		}
		if !seen[e.Target] {
			out = append(out, e.Target)
			seen[e.Target] = true
		}
	}
	return out
}

// SectionForStation returns the owning section ID for a station, or ""
// for junctions, unknown stations, and flat graphs.
func (g *MetroGraph) SectionForStation(id string) string {
	if st, ok := g.stations[id]; ok {
		return st.SectionID
	}
	return ""
}
