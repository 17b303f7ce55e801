package metro

// Line is a named, colored route through a subset of stations and edges.
// Its position in the graph's declaration order determines its track and
// bundle-offset priority everywhere in the layout.
type Line struct {
	ID    string
	Name  string // Display name (defaults to ID when empty)
	Color string
}

// DisplayName returns the line's name, falling back to its ID.
func (l *Line) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Station is a node in the diagram. Real stations come from the input
// graph; ports and junctions are synthetic stations created during layout
// and flagged with IsPort (junctions additionally appear in the graph's
// junction set).
//
// Layer, Track, X, and Y are zero until the layout engine assigns them.
type Station struct {
	ID        string
	Label     string
	SectionID string // Owning section, empty for junctions and flat graphs

	IsPort     bool
	IsHidden   bool
	IsTerminus bool

	// Populated by the layout engine.
	Layer int
	Track float64
	X     float64
	Y     float64
}

// Edge is a directed connection between two stations on a metro line.
// Edges are immutable once added; the same station pair may be connected
// by several edges under different line IDs (parallel lines).
type Edge struct {
	Source string
	Target string
	LineID string
}

// SideHint pairs a boundary side with the line IDs that should pass
// through a port on that side. Hints come either from explicit input
// directives or from automatic port-side inference.
type SideHint struct {
	Side    Side
	LineIDs []string
}

// GridCell is a section's placement in the section grid. Col and Row are
// -1 until assigned; spans default to 1.
type GridCell struct {
	Col     int
	Row     int
	RowSpan int
	ColSpan int
}

// Section is a rectangular visual grouping of stations. StationIDs are in
// definition order and include the section's ports once layout registers
// them. Grid and bbox fields are assigned by the layout engine unless
// pinned through the graph's grid overrides.
type Section struct {
	ID     string
	Number int // Definition order, used for row stacking ties
	Name   string

	StationIDs []string
	EntryPorts []string
	ExitPorts  []string

	EntryHints []SideHint
	ExitHints  []SideHint

	Direction Direction

	GridCol     int
	GridRow     int
	GridRowSpan int
	GridColSpan int

	// Pixel placement, computed by section placement.
	OffsetX float64
	OffsetY float64
	BboxX   float64
	BboxY   float64
	BboxW   float64
	BboxH   float64
}

// Grid returns the section's grid cell.
func (s *Section) Grid() GridCell {
	return GridCell{Col: s.GridCol, Row: s.GridRow, RowSpan: s.GridRowSpan, ColSpan: s.GridColSpan}
}

// Placed reports whether the section has been assigned a grid cell.
func (s *Section) Placed() bool { return s.GridCol >= 0 && s.GridRow >= 0 }

// InternalStations returns the section's member station IDs excluding its
// entry and exit ports, preserving definition order.
func (s *Section) InternalStations() []string {
	ports := make(map[string]bool, len(s.EntryPorts)+len(s.ExitPorts))
	for _, pid := range s.EntryPorts {
		ports[pid] = true
	}
	for _, pid := range s.ExitPorts {
		ports[pid] = true
	}
	var out []string
	for _, sid := range s.StationIDs {
		if !ports[sid] {
			out = append(out, sid)
		}
	}
	return out
}

// Port is a synthetic zero-width station on a section boundary where the
// section's internal flow meets an inter-section edge.
type Port struct {
	ID        string
	SectionID string
	Side      Side
	IsEntry   bool
	LineIDs   []string

	X float64
	Y float64
}
