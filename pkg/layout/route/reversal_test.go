package route

import (
	"testing"

	"github.com/matzehuels/metromap/pkg/metro"
)

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// buildTBFeedGraph builds a TB fold section s1 whose BOTTOM exit feeds
// the TOP entry of s2, with lines l1 and l2 running through both.
func buildTBFeedGraph(t *testing.T) *metro.MetroGraph {
	t.Helper()
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddLine(metro.Line{ID: "l2"}))

	mustAdd(t, g.AddStation(metro.Station{ID: "a", SectionID: "s1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", SectionID: "s2"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1", StationIDs: []string{"a"}, Direction: metro.DirTB}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"b"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideBottom}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_in", SectionID: "s2", Side: metro.SideTop, IsEntry: true}))

	for _, lid := range []string{"l1", "l2"} {
		mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "s1_out", LineID: lid}))
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s2_in", LineID: lid}))
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s2_in", Target: "b", LineID: lid}))
	}
	return g
}

func TestDetectReversedSectionsTopEntry(t *testing.T) {
	g := buildTBFeedGraph(t)
	reversed := DetectReversedSections(g)

	if !reversed["s2"] {
		t.Error("section fed through a TB BOTTOM exit should be reversed")
	}
	if reversed["s1"] {
		t.Error("the TB section itself should not be reversed")
	}
}

func TestDetectReversedSectionsRowPropagation(t *testing.T) {
	g := buildTBFeedGraph(t)

	// s3 continues the bundle on s2's row through horizontal ports.
	mustAdd(t, g.AddStation(metro.Station{ID: "c", SectionID: "s3"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s3", StationIDs: []string{"c"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_out", SectionID: "s2", Side: metro.SideLeft}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s3_in", SectionID: "s3", Side: metro.SideRight, IsEntry: true}))
	for _, lid := range []string{"l1", "l2"} {
		mustAdd(t, g.AddEdge(metro.Edge{Source: "b", Target: "s2_out", LineID: lid}))
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s2_out", Target: "s3_in", LineID: lid}))
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s3_in", Target: "c", LineID: lid}))
	}
	g.Section("s2").GridRow = 1
	g.Section("s3").GridRow = 1

	reversed := DetectReversedSections(g)
	if !reversed["s3"] {
		t.Error("reversal should propagate to same-row horizontal successors")
	}
}

func TestDetectReversedSectionsTBExitEntry(t *testing.T) {
	// A non-reversed TB section's RIGHT exit into a horizontal entry
	// reverses the downstream section: the concentric corner swaps the
	// bundle ordering.
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddLine(metro.Line{ID: "l2"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", SectionID: "s1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", SectionID: "s2"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1", StationIDs: []string{"a"}, Direction: metro.DirTB}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"b"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideRight}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_in", SectionID: "s2", Side: metro.SideLeft, IsEntry: true}))
	for _, lid := range []string{"l1", "l2"} {
		mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "s1_out", LineID: lid}))
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s2_in", LineID: lid}))
		mustAdd(t, g.AddEdge(metro.Edge{Source: "s2_in", Target: "b", LineID: lid}))
	}

	reversed := DetectReversedSections(g)
	if !reversed["s2"] {
		t.Error("section fed by a TB LEFT/RIGHT exit should be reversed")
	}
}

func TestDetectReversedSectionsPlainChain(t *testing.T) {
	g := metro.NewGraph()
	mustAdd(t, g.AddLine(metro.Line{ID: "l1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "a", SectionID: "s1"}))
	mustAdd(t, g.AddStation(metro.Station{ID: "b", SectionID: "s2"}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s1", StationIDs: []string{"a"}}))
	mustAdd(t, g.AddSection(metro.Section{ID: "s2", StationIDs: []string{"b"}}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s1_out", SectionID: "s1", Side: metro.SideRight}))
	mustAdd(t, g.AddPort(metro.Port{ID: "s2_in", SectionID: "s2", Side: metro.SideLeft, IsEntry: true}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "a", Target: "s1_out", LineID: "l1"}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s1_out", Target: "s2_in", LineID: "l1"}))
	mustAdd(t, g.AddEdge(metro.Edge{Source: "s2_in", Target: "b", LineID: "l1"}))

	if reversed := DetectReversedSections(g); len(reversed) != 0 {
		t.Errorf("plain LR chain should have no reversed sections, got %v", reversed)
	}
}
