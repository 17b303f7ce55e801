package layout

// Font and text metrics.
const (
	// CharWidth approximates the pixel width of one character at the
	// default font size.
	CharWidth = 7.0

	// FontHeight approximates the pixel height of the default font.
	FontHeight = 14.0

	// LabelPad is added to label width when computing section bounds.
	LabelPad = 6.0
)

// Global spacing defaults.
const (
	// XSpacing is the horizontal spacing between layers.
	XSpacing = 60.0

	// YSpacing is the vertical spacing between tracks.
	YSpacing = 40.0

	// XOffset is the left padding from the canvas edge to the first layer.
	XOffset = 80.0

	// YOffset is the top padding from the canvas edge to the first track.
	YOffset = 120.0

	// RowGap is the vertical gap between fold rows.
	RowGap = 120.0
)

// Section sizing and padding.
const (
	// SectionGap is the spacing between stations within a section.
	SectionGap = 3.0

	// SectionXPadding is the horizontal padding around section content.
	SectionXPadding = 50.0

	// SectionYPadding is the vertical padding around section content.
	SectionYPadding = 35.0

	// SectionXGap is the horizontal gap between section columns.
	SectionXGap = 50.0

	// SectionYGap is the vertical gap between section rows.
	SectionYGap = 40.0
)

// Section placement.
const (
	// PlacementXGap is the horizontal gap between grid columns.
	PlacementXGap = 80.0

	// PlacementYGap is the vertical gap between grid rows.
	PlacementYGap = 60.0

	// PortMinGap is the minimum spacing between adjacent ports on a
	// section boundary.
	PortMinGap = 15.0

	// MinInterSectionGap is the minimum physical gap between adjacent
	// section bboxes. Keeps the gap midpoint at least two curve radii
	// away from each section edge so bypass corners have room.
	MinInterSectionGap = 40.0
)

// Routing.
const (
	// DiagonalRun is the length of the diagonal segment in direction
	// changes.
	DiagonalRun = 30.0

	// CurveRadius is the default corner radius for routed paths.
	CurveRadius = 10.0

	// OffsetStep is the per-line offset increment for parallel lines in
	// bundles.
	OffsetStep = 3.0

	// CoordTolerance is the tolerance for coordinate comparison (same X
	// or same Y).
	CoordTolerance = 1.0

	// CoordToleranceFine detects nearly identical coordinates.
	CoordToleranceFine = 0.01

	// CrossRowThreshold is the Y gap beyond which an edge is treated as
	// crossing fold rows.
	CrossRowThreshold = 80.0

	// FoldMargin is the offset from the fold edge for cross-row routing.
	FoldMargin = 30.0

	// MinStraightInter is the minimum straight track length for
	// inter-section routing.
	MinStraightInter = 15.0

	// MinStraightPort is the curve radius offset for port-adjacent edges.
	MinStraightPort = 5.0

	// MinStraightEdge is the minimum straight track for non-port edges.
	MinStraightEdge = 10.0

	// BypassClearance is the vertical clearance below the lowest
	// intervening section for bypass routes.
	BypassClearance = 25.0

	// BypassNestStep is the per-line vertical offset for stacking
	// multiple bypass routes.
	BypassNestStep = 8.0
)

// Entry and exit alignment.
const (
	// TBLineYOffset is the per-line Y offset increment in TB sections.
	TBLineYOffset = 3.0

	// EntryShiftTB shifts entries in TB sections with perpendicular
	// entry.
	EntryShiftTB = 0.6

	// EntryShiftTBCross shifts entries in TB sections with cross-column
	// TOP entry.
	EntryShiftTBCross = 1.0

	// EntryInsetLR insets entries in LR/RL sections with perpendicular
	// entry.
	EntryInsetLR = 0.3

	// ExitGapMultiplier scales the gap for flow-side exits.
	ExitGapMultiplier = 0.4

	// JunctionMargin positions junctions inside inter-section gaps.
	JunctionMargin = 10.0

	// MinPortStationGap is the minimum gap between an entry port and
	// internal stations in TB perpendicular entry.
	MinPortStationGap = 16.0

	// StationElbowTolerance is the tolerance for station-as-elbow
	// detection.
	StationElbowTolerance = 12.0
)

// Track ordering.
const (
	// LineGap is the fixed gap between line base tracks.
	LineGap = 1.0

	// DiamondCompression pulls fork-join branches toward the trunk.
	DiamondCompression = 0.25

	// SideBranchNudge moves side branches toward their base track.
	SideBranchNudge = 1.0

	// FanoutSpacing scales fan-out node spread.
	FanoutSpacing = 1.5
)

// Fold defaults.
const (
	// MinLayersForFold is the total layer count below which automatic
	// layout never folds the diagram.
	MinLayersForFold = 10
)
