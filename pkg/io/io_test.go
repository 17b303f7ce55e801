package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/metromap/pkg/layout/route"
	"github.com/matzehuels/metromap/pkg/metro"
)

const sampleGraph = `{
  "title": "etl pipeline",
  "lines": [
    {"id": "orders", "color": "#e91e63"},
    {"id": "users", "color": "#2196f3"}
  ],
  "stations": [
    {"id": "extract"},
    {"id": "transform", "label": "Transform"},
    {"id": "load", "terminus": true}
  ],
  "sections": [
    {"id": "ingest", "stations": ["extract", "transform"], "direction": "LR"},
    {"id": "sink", "stations": ["load"]}
  ],
  "ports": [
    {"id": "ingest_out", "section": "ingest", "side": "right"},
    {"id": "sink_in", "section": "sink", "side": "left", "entry": true}
  ],
  "edges": [
    {"from": "extract", "to": "transform", "line": "orders"},
    {"from": "transform", "to": "ingest_out", "line": "orders"},
    {"from": "ingest_out", "to": "sink_in", "line": "orders"},
    {"from": "sink_in", "to": "load", "line": "orders"}
  ]
}`

func TestReadJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	if g.Title != "etl pipeline" {
		t.Errorf("Title = %q, want %q", g.Title, "etl pipeline")
	}
	if g.LineCount() != 2 || g.LineOrder()[0] != "orders" {
		t.Errorf("lines = %v, want [orders users]", g.LineOrder())
	}
	// Three declared stations plus two port stations.
	if g.StationCount() != 5 {
		t.Errorf("StationCount = %d, want 5", g.StationCount())
	}
	if st := g.Station("transform"); st.SectionID != "ingest" || st.Label != "Transform" {
		t.Errorf("transform = %+v, want section ingest, label Transform", st)
	}
	if !g.HasExplicitDirection("ingest") {
		t.Error("direction from input should be marked explicit")
	}
	if g.HasExplicitDirection("sink") {
		t.Error("sink has no direction directive")
	}
	if port := g.Port("sink_in"); port == nil || !port.IsEntry || port.Side != metro.SideLeft {
		t.Errorf("sink_in port = %+v, want left entry", port)
	}
	sec := g.Section("ingest")
	if len(sec.ExitPorts) != 1 || sec.ExitPorts[0] != "ingest_out" {
		t.Errorf("ingest exit ports = %v, want [ingest_out]", sec.ExitPorts)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", `{"stations": [`},
		{"unknown edge endpoint", `{"stations": [{"id": "a"}], "edges": [{"from": "a", "to": "ghost"}]}`},
		{"duplicate station", `{"stations": [{"id": "a"}, {"id": "a"}], "edges": []}`},
		{"bad port side", `{"stations": [{"id": "a"}], "edges": [],
			"sections": [{"id": "s", "stations": ["a"]}],
			"ports": [{"id": "p", "section": "s", "side": "diagonal"}]}`},
		{"bad direction", `{"stations": [{"id": "a"}], "edges": [],
			"sections": [{"id": "s", "stations": ["a"], "direction": "spiral"}]}`},
		{"bad line color", `{"lines": [{"id": "l1", "color": "red"}], "stations": [], "edges": []}`},
		{"whitespace station id", `{"stations": [{"id": "a b"}], "edges": []}`},
	}
	for _, tt := range tests {
		if _, err := ReadJSON(strings.NewReader(tt.src)); err == nil {
			t.Errorf("%s: want error, got nil", tt.name)
		}
	}
}

func TestMarshalGraphRoundTrip(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	first, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph error: %v", err)
	}

	g2, err := ReadJSON(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("re-import error: %v", err)
	}
	second, err := MarshalGraph(g2)
	if err != nil {
		t.Fatalf("second MarshalGraph error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("MarshalGraph should be stable across an import round trip")
	}
}

func TestBuildLayout(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	paths := []route.RoutedPath{{
		Edge:   metro.Edge{Source: "extract", Target: "transform", LineID: "orders"},
		LineID: "orders",
		Points: []route.Point{{X: 80, Y: 120}, {X: 140, Y: 120}},
	}}
	offsets := make(route.Offsets)
	offsets.Set("extract", "orders", 0)

	l := BuildLayout(g, paths, offsets)
	if l.Title != "etl pipeline" {
		t.Errorf("Title = %q, want graph title", l.Title)
	}
	if l.Generator == "" {
		t.Error("Generator should carry the engine version")
	}
	if len(l.Stations) != g.StationCount() {
		t.Errorf("layout carries %d stations, want %d", len(l.Stations), g.StationCount())
	}
	if len(l.Paths) != 1 || l.Paths[0].From != "extract" {
		t.Errorf("paths = %+v, want the routed edge", l.Paths)
	}
	if len(l.Paths[0].Points) != 2 || l.Paths[0].Points[0] != [2]float64{80, 120} {
		t.Errorf("path points = %v, want [[80 120] [140 120]]", l.Paths[0].Points)
	}
	if len(l.Offsets) != 1 || l.Offsets[0].Station != "extract" {
		t.Errorf("offsets = %+v, want the extract entry", l.Offsets)
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout error: %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout error: %v", err)
	}
	if back.Title != l.Title || len(back.Stations) != len(l.Stations) || len(back.Paths) != len(l.Paths) {
		t.Error("layout changed across a marshal round trip")
	}
}

func TestWriteJSONIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(Layout{Title: "x"}, &buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("WriteJSON should produce indented output")
	}
}
