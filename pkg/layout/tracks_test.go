package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/metromap/pkg/metro"
)

func addLines(t *testing.T, g *metro.MetroGraph, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := g.AddLine(metro.Line{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
}

func assignTracks(t *testing.T, g *metro.MetroGraph) map[string]float64 {
	t.Helper()
	layers, err := AssignLayers(g)
	if err != nil {
		t.Fatalf("AssignLayers error: %v", err)
	}
	return AssignTracks(g, layers, LineGap)
}

func TestAssignTracksNoLines(t *testing.T) {
	g := metro.NewGraph()
	addStations(t, g, "a", "b", "c")
	addEdges(t, g, "", [2]string{"a", "b"})

	tracks := assignTracks(t, g)
	want := map[string]float64{"a": 0, "b": 1, "c": 2}
	if !reflect.DeepEqual(tracks, want) {
		t.Errorf("tracks = %v, want %v", tracks, want)
	}
}

func TestAssignTracksSingleLineChain(t *testing.T) {
	g := metro.NewGraph()
	addLines(t, g, "main")
	addStations(t, g, "a", "b", "c")
	addEdges(t, g, "main", [2]string{"a", "b"}, [2]string{"b", "c"})

	tracks := assignTracks(t, g)
	for _, sid := range []string{"a", "b", "c"} {
		if tracks[sid] != 0 {
			t.Errorf("track(%s) = %v, want 0", sid, tracks[sid])
		}
	}
}

func TestAssignTracksForkAndMerge(t *testing.T) {
	// Two lines split at a and converge at d. Each branch snaps to its
	// line's base track, and the merge snaps back to the primary base.
	g := metro.NewGraph()
	addLines(t, g, "l1", "l2")
	addStations(t, g, "a", "b", "c", "d")
	addEdges(t, g, "l1", [2]string{"a", "b"}, [2]string{"b", "d"})
	addEdges(t, g, "l2", [2]string{"a", "c"}, [2]string{"c", "d"})

	tracks := assignTracks(t, g)
	if tracks["a"] != 0 {
		t.Errorf("track(a) = %v, want 0", tracks["a"])
	}
	if tracks["b"] != 0 {
		t.Errorf("track(b) = %v, want base of l1 (0)", tracks["b"])
	}
	if tracks["c"] != LineGap {
		t.Errorf("track(c) = %v, want base of l2 (%v)", tracks["c"], LineGap)
	}
	if tracks["d"] != 0 {
		t.Errorf("track(d) = %v, want primary base 0 after merge", tracks["d"])
	}
}

func TestAssignTracksFanOut(t *testing.T) {
	g := metro.NewGraph()
	addLines(t, g, "main")
	addStations(t, g, "a", "b", "c", "d")
	addEdges(t, g, "main",
		[2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"a", "d"})

	tracks := assignTracks(t, g)
	if math.Abs(tracks["c"]) > 1e-9 {
		t.Errorf("middle fan node should sit on the anchor, got %v", tracks["c"])
	}
	if !(tracks["b"] < tracks["c"] && tracks["c"] < tracks["d"]) {
		t.Errorf("fan should spread in order: %v %v %v", tracks["b"], tracks["c"], tracks["d"])
	}
	if math.Abs(tracks["b"]+tracks["d"]) > 1e-9 {
		t.Errorf("fan should be symmetric around the anchor: %v vs %v", tracks["b"], tracks["d"])
	}
	gap1 := tracks["c"] - tracks["b"]
	gap2 := tracks["d"] - tracks["c"]
	if math.Abs(gap1-gap2) > 1e-9 {
		t.Errorf("fan spacing should be even: %v vs %v", gap1, gap2)
	}
	// Sub-linear spread: three branches sit closer than FanoutSpacing.
	if gap1 >= FanoutSpacing {
		t.Errorf("fan of 3 should compress below %v, got %v", FanoutSpacing, gap1)
	}
}

func TestAssignTracksOrphans(t *testing.T) {
	g := metro.NewGraph()
	addLines(t, g, "main")
	addStations(t, g, "a", "b", "x", "y")
	addEdges(t, g, "main", [2]string{"a", "b"})

	tracks := assignTracks(t, g)
	if tracks["x"] != 1 || tracks["y"] != 2 {
		t.Errorf("orphans should stack past the last base: x=%v y=%v, want 1 2", tracks["x"], tracks["y"])
	}
}

func TestAssignTracksEqualizeForkGroups(t *testing.T) {
	// Fork siblings on l1 and l3 start two bases apart; equalization
	// compacts them to consecutive tracks.
	g := metro.NewGraph()
	addLines(t, g, "l1", "l2", "l3")
	addStations(t, g, "a", "b", "c")
	addEdges(t, g, "l1", [2]string{"a", "b"})
	addEdges(t, g, "l3", [2]string{"a", "c"})

	tracks := assignTracks(t, g)
	if tracks["b"] != 0 {
		t.Errorf("track(b) = %v, want 0", tracks["b"])
	}
	if tracks["c"] != LineGap {
		t.Errorf("track(c) = %v, want compacted to %v", tracks["c"], LineGap)
	}
}

func TestReorderLinesBySpan(t *testing.T) {
	g := metro.NewGraph()
	addLines(t, g, "short", "long")
	if err := g.AddStation(metro.Station{ID: "a", SectionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddStation(metro.Station{ID: "b", SectionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddStation(metro.Station{ID: "c", SectionID: "s2"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddSection(metro.Section{ID: "s1", StationIDs: []string{"a", "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"c"}}); err != nil {
		t.Fatal(err)
	}
	addEdges(t, g, "short", [2]string{"a", "b"})
	addEdges(t, g, "long", [2]string{"a", "c"})

	ReorderLinesBySpan(g)
	want := []string{"long", "short"}
	if !reflect.DeepEqual(g.LineOrder(), want) {
		t.Errorf("line order = %v, want %v", g.LineOrder(), want)
	}
}

func TestReorderLinesBySpanFlatGraph(t *testing.T) {
	g := metro.NewGraph()
	addLines(t, g, "a", "b")
	ReorderLinesBySpan(g)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(g.LineOrder(), want) {
		t.Errorf("flat graph should keep declaration order, got %v", g.LineOrder())
	}
}
