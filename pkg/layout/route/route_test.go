package route

import (
	"testing"

	"github.com/matzehuels/metromap/pkg/metro"
)

func pointsEqual(got []Point, want []Point) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRouteEdgesStraight(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", X: 100, Y: 100}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", X: 200, Y: 100}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "b", LineID: "l1"}))

	routes := RouteEdges(g, 0, 0, make(Offsets))
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	if !pointsEqual(routes[0].Points, []Point{{100, 100}, {200, 100}}) {
		t.Errorf("same-track edge should route straight, got %v", routes[0].Points)
	}
}

func TestRouteEdgesDiagonal(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", X: 100, Y: 100}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", X: 200, Y: 140}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "b", LineID: "l1"}))

	routes := RouteEdges(g, 30, 10, make(Offsets))
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	// Midpoint diagonal: straight to 135, 45 degree run to 165, straight
	// to the target.
	want := []Point{{100, 100}, {135, 100}, {165, 140}, {200, 140}}
	if !pointsEqual(routes[0].Points, want) {
		t.Errorf("diagonal route = %v, want %v", routes[0].Points, want)
	}
}

func TestRouteEdgesDiagonalForkBias(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddLine(metro.Line{ID: "l2"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", X: 100, Y: 100}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", X: 200, Y: 100}))
	mustAdd(t, g.AddStation(metro.Station{ID: "c", X: 200, Y: 140}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "b", LineID: "l1"}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "c", LineID: "l2"}))

	routes := RouteEdges(g, 30, 10, make(Offsets))
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	// The branch diverges right after the fork station instead of at the
	// midpoint.
	branch := routes[1]
	if branch.Points[1].X >= (100+200)/2 {
		t.Errorf("fork branch should diverge near the fork, diagonal starts at %v", branch.Points[1].X)
	}
}

// buildPortPair creates two sections in adjacent grid columns connected
// through a right exit and left entry port on line l1.
func buildPortPair(t *testing.T) *metro.MetroGraph {
	t.Helper()
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", SectionID: "s1", X: 100, Y: 100}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", SectionID: "s2", X: 350, Y: 200}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1", StationIDs: []string{"a"}}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"b"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideRight}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_in", SectionID: "s2", Side: metro.SideLeft, IsEntry: true}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "s1_out", LineID: "l1"}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s2_in", LineID: "l1"}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s2_in", Target: "b", LineID: "l1"}))

	s1, s2 := g.Section("s1"), g.Section("s2")
	s1.GridCol, s1.BboxX, s1.BboxY, s1.BboxW, s1.BboxH = 0, 0, 50, 200, 100
	s2.GridCol, s2.BboxX, s2.BboxY, s2.BboxW, s2.BboxH = 1, 250, 150, 100, 100

	out, in := g.Station("s1_out"), g.Station("s2_in")
	out.X, out.Y = 200, 100
	in.X, in.Y = 250, 200
	return g
}

func TestRouteEdgesInterSectionLShape(t *testing.T) {
	g := buildPortPair(t)
	routes := RouteEdges(g, 30, 10, make(Offsets))

	var inter *RoutedPath
	for i := range routes {
		if routes[i].IsInterSection {
			inter = &routes[i]
		}
	}
	if inter == nil {
		t.Fatal("no inter-section route found")
	}
	// Vertical channel in the middle of the column gap.
	want := []Point{{200, 100}, {225, 100}, {225, 200}, {250, 200}}
	if !pointsEqual(inter.Points, want) {
		t.Errorf("L-shape = %v, want %v", inter.Points, want)
	}
	if len(inter.CurveRadii) != 2 || inter.CurveRadii[0] != 10 || inter.CurveRadii[1] != 10 {
		t.Errorf("single-line L-shape radii = %v, want [10 10]", inter.CurveRadii)
	}
}

func TestRouteEdgesTBBottomExitDrop(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddLine(metro.Line{ID: "l2"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", SectionID: "s2", X: 100, Y: 340}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1", Direction: metro.DirTB}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"b"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideBottom}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_in", SectionID: "s2", Side: metro.SideTop, IsEntry: true}))
	for _, lid := range []string{"l1", "l2"} {
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s2_in", LineID: lid}))
	}
	out, in := g.Station("s1_out"), g.Station("s2_in")
	out.X, out.Y = 100, 200
	in.X, in.Y = 100, 300

	offsets := make(Offsets)
	offsets.Set("s1_out", "l1", 0)
	offsets.Set("s1_out", "l2", 3)

	routes := RouteEdges(g, 30, 10, offsets)
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	// The drop reverses X offsets: priority line l1 lands outermost.
	if !pointsEqual(routes[0].Points, []Point{{103, 200}, {103, 300}}) {
		t.Errorf("l1 drop = %v, want reversed offset 3", routes[0].Points)
	}
	if !pointsEqual(routes[1].Points, []Point{{100, 200}, {100, 300}}) {
		t.Errorf("l2 drop = %v, want reversed offset 0", routes[1].Points)
	}
}

func TestRouteEdgesBypass(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "blocker", SectionID: "s2"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"blocker"}}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s3"}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideRight}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s3_in", SectionID: "s3", Side: metro.SideLeft, IsEntry: true}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s3_in", LineID: "l1"}))

	s1, s2, s3 := g.Section("s1"), g.Section("s2"), g.Section("s3")
	s1.GridCol, s1.BboxX, s1.BboxY, s1.BboxW, s1.BboxH = 0, 0, 50, 200, 100
	s2.GridCol, s2.BboxX, s2.BboxY, s2.BboxW, s2.BboxH = 1, 250, 80, 100, 140
	s3.GridCol, s3.BboxX, s3.BboxY, s3.BboxW, s3.BboxH = 2, 400, 60, 100, 100

	out, in := g.Station("s1_out"), g.Station("s3_in")
	out.X, out.Y = 200, 100
	in.X, in.Y = 400, 110

	routes := RouteEdges(g, 30, 10, make(Offsets))
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	path := routes[0]
	// Six-point U: dip below the blocking section's bottom edge (220)
	// plus clearance, through the flanking column gaps.
	want := []Point{
		{200, 100},
		{225, 100},
		{225, 245},
		{375, 245},
		{375, 110},
		{400, 110},
	}
	if !pointsEqual(path.Points, want) {
		t.Errorf("bypass = %v, want %v", path.Points, want)
	}
	if len(path.CurveRadii) != 4 {
		t.Errorf("bypass should carry four corner radii, got %v", path.CurveRadii)
	}
	for _, p := range path.Points {
		if p.Y > 220 && p.Y < 245 {
			t.Errorf("point %v inside the blocked band", p)
		}
	}
}

func TestRouteEdgesCrossRowFold(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", X: 400, Y: 100}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", X: 100, Y: 300}))
	mustAdd(t, g.AddStation(metro.Station{ID: "wide", X: 500, Y: 100}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "b", LineID: "l1"}))

	routes := RouteEdges(g, 30, 10, make(Offsets))
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	// The connector swings around the layout's right edge (max X 500
	// plus margin) before dropping to the next row band.
	want := []Point{{400, 100}, {530, 100}, {530, 300}, {100, 300}}
	if !pointsEqual(routes[0].Points, want) {
		t.Errorf("cross-row connector = %v, want %v", routes[0].Points, want)
	}
}

func TestRouteEdgesUpstreamMerge(t *testing.T) {
	// An inter-section edge into a TOP entry port at the same Y fuses
	// with the port-to-internal edge into a single route, regardless of
	// which edge was added first.
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", SectionID: "s2", X: 200, Y: 140}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"b"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideRight}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_in", SectionID: "s2", Side: metro.SideTop, IsEntry: true}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s2_in", LineID: "l1"}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s2_in", Target: "b", LineID: "l1"}))

	out, in := g.Station("s1_out"), g.Station("s2_in")
	out.X, out.Y = 100, 100
	in.X, in.Y = 200, 100

	routes := RouteEdges(g, 30, 10, make(Offsets))
	if len(routes) != 1 {
		t.Fatalf("upstream edge should merge into the entry route, got %d routes", len(routes))
	}
	want := []Point{{100, 100}, {200, 100}, {200, 140}}
	if !pointsEqual(routes[0].Points, want) {
		t.Errorf("merged route = %v, want %v", routes[0].Points, want)
	}
}
