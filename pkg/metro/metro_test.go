package metro

import (
	"errors"
	"testing"

	apperrors "github.com/matzehuels/metromap/pkg/errors"
)

func TestAddStation(t *testing.T) {
	g := NewGraph()

	if err := g.AddStation(Station{ID: "a", Label: "Align"}); err != nil {
		t.Fatalf("AddStation() error = %v", err)
	}

	if err := g.AddStation(Station{ID: "a"}); !errors.Is(err, ErrDuplicateStation) {
		t.Errorf("duplicate AddStation() error = %v, want ErrDuplicateStation", err)
	}

	if err := g.AddStation(Station{ID: ""}); !errors.Is(err, ErrInvalidStationID) {
		t.Errorf("empty AddStation() error = %v, want ErrInvalidStationID", err)
	}

	if got := g.StationCount(); got != 1 {
		t.Errorf("StationCount() = %d, want 1", got)
	}
}

func TestAddEdgeUnknownEndpoints(t *testing.T) {
	g := NewGraph()
	if err := g.AddStation(Station{ID: "a"}); err != nil {
		t.Fatal(err)
	}

	if err := g.AddEdge(Edge{Source: "missing", Target: "a"}); !errors.Is(err, ErrUnknownSourceStation) {
		t.Errorf("AddEdge() error = %v, want ErrUnknownSourceStation", err)
	}
	if err := g.AddEdge(Edge{Source: "a", Target: "missing"}); !errors.Is(err, ErrUnknownTargetStation) {
		t.Errorf("AddEdge() error = %v, want ErrUnknownTargetStation", err)
	}
}

func TestStationOrderPreserved(t *testing.T) {
	g := NewGraph()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if err := g.AddStation(Station{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	got := g.StationIDs()
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("StationIDs()[%d] = %q, want %q", i, got[i], id)
		}
	}
}

func TestStationLinesDeclarationOrder(t *testing.T) {
	g := NewGraph()
	if err := g.AddLine(Line{ID: "red"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddLine(Line{ID: "blue"}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b"} {
		if err := g.AddStation(Station{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	// Blue edge first, red second. StationLines must still report
	// declaration order.
	if err := g.AddEdge(Edge{Source: "a", Target: "b", LineID: "blue"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(Edge{Source: "a", Target: "b", LineID: "red"}); err != nil {
		t.Fatal(err)
	}

	lines := g.StationLines("a")
	if len(lines) != 2 || lines[0] != "red" || lines[1] != "blue" {
		t.Errorf("StationLines(a) = %v, want [red blue]", lines)
	}
}

func TestSetLineOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"red", "blue", "green"} {
		if err := g.AddLine(Line{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	g.SetLineOrder([]string{"green", "red"})

	got := g.LineOrder()
	want := []string{"green", "red", "blue"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LineOrder()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	prio := g.LinePriority()
	if prio["green"] != 0 || prio["red"] != 1 || prio["blue"] != 2 {
		t.Errorf("LinePriority() = %v", prio)
	}
}

func TestAddSectionDefaults(t *testing.T) {
	g := NewGraph()
	if err := g.AddSection(Section{ID: "qc"}); err != nil {
		t.Fatal(err)
	}

	sec := g.Section("qc")
	if sec.Placed() {
		t.Error("new section reports Placed() = true, want false")
	}
	if sec.GridRowSpan != 1 || sec.GridColSpan != 1 {
		t.Errorf("spans = %d,%d, want 1,1", sec.GridRowSpan, sec.GridColSpan)
	}
	if sec.Number != 1 {
		t.Errorf("Number = %d, want 1", sec.Number)
	}

	if err := g.AddSection(Section{ID: "qc"}); !errors.Is(err, ErrDuplicateSection) {
		t.Errorf("duplicate AddSection() error = %v, want ErrDuplicateSection", err)
	}
}

func TestAddPortRegistersStation(t *testing.T) {
	g := NewGraph()
	if err := g.AddSection(Section{ID: "qc"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPort(Port{ID: "qc_in", SectionID: "qc", Side: SideLeft, IsEntry: true}); err != nil {
		t.Fatalf("AddPort() error = %v", err)
	}
	if err := g.AddPort(Port{ID: "qc_out", SectionID: "qc", Side: SideRight}); err != nil {
		t.Fatalf("AddPort() error = %v", err)
	}

	st := g.Station("qc_in")
	if st == nil || !st.IsPort {
		t.Fatalf("port station not registered: %+v", st)
	}
	if st.SectionID != "qc" {
		t.Errorf("port station SectionID = %q, want qc", st.SectionID)
	}

	sec := g.Section("qc")
	if len(sec.EntryPorts) != 1 || sec.EntryPorts[0] != "qc_in" {
		t.Errorf("EntryPorts = %v, want [qc_in]", sec.EntryPorts)
	}
	if len(sec.ExitPorts) != 1 || sec.ExitPorts[0] != "qc_out" {
		t.Errorf("ExitPorts = %v, want [qc_out]", sec.ExitPorts)
	}
	if got := sec.InternalStations(); len(got) != 0 {
		t.Errorf("InternalStations() = %v, want empty", got)
	}
}

func TestAddJunction(t *testing.T) {
	g := NewGraph()
	if err := g.AddJunction("j_1"); err != nil {
		t.Fatal(err)
	}

	if !g.IsJunction("j_1") {
		t.Error("IsJunction(j_1) = false, want true")
	}
	if g.SectionForStation("j_1") != "" {
		t.Errorf("SectionForStation(j_1) = %q, want empty", g.SectionForStation("j_1"))
	}
}

func TestLineStationsEdgeOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddStation(Station{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	edges := []Edge{
		{Source: "b", Target: "c", LineID: "red"},
		{Source: "a", Target: "b", LineID: "red"},
		{Source: "a", Target: "c", LineID: "blue"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}

	got := g.LineStations("red")
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("LineStations(red) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LineStations(red)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		g := NewGraph()
		if err := g.AddLine(Line{ID: "red"}); err != nil {
			t.Fatal(err)
		}
		if err := g.AddSection(Section{ID: "qc"}); err != nil {
			t.Fatal(err)
		}
		for _, id := range []string{"a", "b"} {
			if err := g.AddStation(Station{ID: id, SectionID: "qc"}); err != nil {
				t.Fatal(err)
			}
			sec := g.Section("qc")
			sec.StationIDs = append(sec.StationIDs, id)
		}
		if err := g.AddEdge(Edge{Source: "a", Target: "b", LineID: "red"}); err != nil {
			t.Fatal(err)
		}
		if err := g.AddPort(Port{ID: "qc_in", SectionID: "qc", Side: SideLeft, IsEntry: true}); err != nil {
			t.Fatal(err)
		}

		if err := g.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("unknown line", func(t *testing.T) {
		g := NewGraph()
		for _, id := range []string{"a", "b"} {
			if err := g.AddStation(Station{ID: id}); err != nil {
				t.Fatal(err)
			}
		}
		if err := g.AddEdge(Edge{Source: "a", Target: "b", LineID: "ghost"}); err != nil {
			t.Fatal(err)
		}

		err := g.Validate()
		if !apperrors.Is(err, apperrors.ErrCodeInvalidGraph) {
			t.Errorf("Validate() error = %v, want INVALID_GRAPH", err)
		}
	})

	t.Run("foreign member", func(t *testing.T) {
		g := NewGraph()
		if err := g.AddSection(Section{ID: "qc"}); err != nil {
			t.Fatal(err)
		}
		if err := g.AddStation(Station{ID: "a", SectionID: "other"}); err != nil {
			t.Fatal(err)
		}
		g.Section("qc").StationIDs = append(g.Section("qc").StationIDs, "a")

		err := g.Validate()
		if !apperrors.Is(err, apperrors.ErrCodeInvalidSection) {
			t.Errorf("Validate() error = %v, want INVALID_SECTION", err)
		}
	})

	t.Run("partial grid cell", func(t *testing.T) {
		g := NewGraph()
		if err := g.AddSection(Section{ID: "qc"}); err != nil {
			t.Fatal(err)
		}
		g.Section("qc").GridCol = 2

		err := g.Validate()
		if !apperrors.Is(err, apperrors.ErrCodeInvalidSection) {
			t.Errorf("Validate() error = %v, want INVALID_SECTION", err)
		}
	})
}

func TestSideAndDirection(t *testing.T) {
	if !SideLeft.Horizontal() || SideTop.Horizontal() {
		t.Error("Horizontal() misclassifies sides")
	}
	if !SideBottom.Vertical() || SideRight.Vertical() {
		t.Error("Vertical() misclassifies sides")
	}

	for _, tag := range []string{"LR", "RL", "TB"} {
		d, ok := ParseDirection(tag)
		if !ok || d.String() != tag {
			t.Errorf("ParseDirection(%q) = %v, %v", tag, d, ok)
		}
	}
	if _, ok := ParseDirection("BT"); ok {
		t.Error("ParseDirection(BT) ok = true, want false")
	}
}
