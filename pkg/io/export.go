package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/metromap/pkg/buildinfo"
	"github.com/matzehuels/metromap/pkg/layout/route"
	"github.com/matzehuels/metromap/pkg/metro"
)

// Layout is the serializable renderer contract: everything a drawing
// backend needs to emit a diagram.
type Layout struct {
	Title string `json:"title,omitempty"`
	Style string `json:"style,omitempty"`
	// Generator records the engine version that produced the layout,
	// for debugging stale cache entries.
	Generator string    `json:"generator,omitempty"`
	Lines     []Line    `json:"lines,omitempty"`
	Stations  []Station `json:"stations"`
	Sections  []Section `json:"sections,omitempty"`
	Paths     []Path    `json:"paths,omitempty"`
	Offsets   []Offset  `json:"offsets,omitempty"`
}

// Line is the serialized form of a metro line.
type Line struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// Station is the serialized form of a positioned station.
type Station struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Section  string  `json:"section,omitempty"`
	IsPort   bool    `json:"is_port,omitempty"`
	Hidden   bool    `json:"hidden,omitempty"`
	Terminus bool    `json:"terminus,omitempty"`
	Layer    int     `json:"layer"`
	Track    float64 `json:"track"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Section is the serialized form of a placed section.
type Section struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	Stations  []string `json:"stations,omitempty"`
	Direction string   `json:"direction"`
	Col       int      `json:"col"`
	Row       int      `json:"row"`
	RowSpan   int      `json:"row_span,omitempty"`
	ColSpan   int      `json:"col_span,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	W         float64  `json:"w"`
	H         float64  `json:"h"`
}

// Path is the serialized form of one routed edge.
type Path struct {
	From           string       `json:"from"`
	To             string       `json:"to"`
	Line           string       `json:"line"`
	Points         [][2]float64 `json:"points"`
	InterSection   bool         `json:"inter_section,omitempty"`
	Radii          []float64    `json:"radii,omitempty"`
	OffsetsApplied bool         `json:"offsets_applied,omitempty"`
}

// Offset is one per-(station, line) bundle offset.
type Offset struct {
	Station string  `json:"station"`
	Line    string  `json:"line"`
	Offset  float64 `json:"offset"`
}

// BuildLayout assembles the renderer contract from a laid-out graph,
// its routed paths, and the bundle offset table. Collections follow the
// graph's deterministic iteration order.
func BuildLayout(g *metro.MetroGraph, paths []route.RoutedPath, offsets route.Offsets) Layout {
	l := Layout{
		Title:     g.Title,
		Style:     g.Style,
		Generator: buildinfo.Version,
	}

	for _, lid := range g.LineOrder() {
		ln := g.Line(lid)
		l.Lines = append(l.Lines, Line{ID: ln.ID, Name: ln.Name, Color: ln.Color})
	}

	for _, sid := range g.StationIDs() {
		st := g.Station(sid)
		l.Stations = append(l.Stations, Station{
			ID:       st.ID,
			Label:    st.Label,
			Section:  st.SectionID,
			IsPort:   st.IsPort,
			Hidden:   st.IsHidden,
			Terminus: st.IsTerminus,
			Layer:    st.Layer,
			Track:    st.Track,
			X:        st.X,
			Y:        st.Y,
		})
	}

	for _, sec := range g.Sections() {
		l.Sections = append(l.Sections, Section{
			ID:        sec.ID,
			Name:      sec.Name,
			Stations:  sec.StationIDs,
			Direction: sec.Direction.String(),
			Col:       sec.GridCol,
			Row:       sec.GridRow,
			RowSpan:   sec.GridRowSpan,
			ColSpan:   sec.GridColSpan,
			X:         sec.BboxX,
			Y:         sec.BboxY,
			W:         sec.BboxW,
			H:         sec.BboxH,
		})
	}

	for _, p := range paths {
		points := make([][2]float64, len(p.Points))
		for i, pt := range p.Points {
			points[i] = [2]float64{pt.X, pt.Y}
		}
		l.Paths = append(l.Paths, Path{
			From:           p.Edge.Source,
			To:             p.Edge.Target,
			Line:           p.LineID,
			Points:         points,
			InterSection:   p.IsInterSection,
			Radii:          p.CurveRadii,
			OffsetsApplied: p.OffsetsApplied,
		})
	}

	for _, e := range offsets.Entries() {
		l.Offsets = append(l.Offsets, Offset{
			Station: e.StationID,
			Line:    e.LineID,
			Offset:  e.Offset,
		})
	}

	return l
}

// MarshalLayout serializes a layout for caching or transport.
func MarshalLayout(l Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout deserializes a layout produced by [MarshalLayout].
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteJSON encodes a layout as indented JSON and writes it to w.
func WriteJSON(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

// MarshalGraph serializes a graph's structure and layout-relevant
// attributes in deterministic order. The pipeline hashes this for cache
// keys, so two graphs with the same content always produce the same
// bytes.
func MarshalGraph(g *metro.MetroGraph) ([]byte, error) {
	out := exportGraph(g)
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return data, nil
}
