package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/matzehuels/metromap/pkg/errors"
	"github.com/matzehuels/metromap/pkg/metro"
)

type graphJSON struct {
	Title     string        `json:"title,omitempty"`
	Style     string        `json:"style,omitempty"`
	Lines     []lineJSON    `json:"lines,omitempty"`
	Stations  []stationJSON `json:"stations"`
	Edges     []edgeJSON    `json:"edges"`
	Sections  []sectionJSON `json:"sections,omitempty"`
	Ports     []portJSON    `json:"ports,omitempty"`
	Junctions []string      `json:"junctions,omitempty"`
}

type lineJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

type stationJSON struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
	Terminus bool   `json:"terminus,omitempty"`
}

type edgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	Line string `json:"line,omitempty"`
}

type sectionJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	Stations  []string `json:"stations"`
	Direction string   `json:"direction,omitempty"`
	Col       *int     `json:"col,omitempty"`
	Row       *int     `json:"row,omitempty"`
	RowSpan   int      `json:"row_span,omitempty"`
	ColSpan   int      `json:"col_span,omitempty"`
}

type portJSON struct {
	ID      string   `json:"id"`
	Section string   `json:"section"`
	Side    string   `json:"side"`
	Entry   bool     `json:"entry,omitempty"`
	Lines   []string `json:"lines,omitempty"`
}

// ReadJSON decodes a JSON graph description from r into a MetroGraph.
//
// Lines, stations, sections, and ports are registered in array order,
// which fixes line priorities and all deterministic iteration orders.
// Section membership is declared on the section; ports attach themselves
// to their section and synthesize their backing station.
//
// ReadJSON returns an error if the JSON is malformed, an ID is
// duplicated, or an edge references an unknown station. Errors are
// wrapped with the offending node or edge. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*metro.MetroGraph, error) {
	var data graphJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := metro.NewGraph()
	g.Title = data.Title
	g.Style = data.Style

	for _, l := range data.Lines {
		if err := apperrors.ValidateIdentifier(l.ID); err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ID, err)
		}
		if err := apperrors.ValidateColor(l.Color); err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ID, err)
		}
		if err := g.AddLine(metro.Line{ID: l.ID, Name: l.Name, Color: l.Color}); err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ID, err)
		}
	}

	for _, s := range data.Stations {
		if err := apperrors.ValidateIdentifier(s.ID); err != nil {
			return nil, fmt.Errorf("station %s: %w", s.ID, err)
		}
		st := metro.Station{
			ID:         s.ID,
			Label:      s.Label,
			IsHidden:   s.Hidden,
			IsTerminus: s.Terminus,
		}
		if err := g.AddStation(st); err != nil {
			return nil, fmt.Errorf("station %s: %w", s.ID, err)
		}
	}

	for _, sec := range data.Sections {
		s := metro.Section{
			ID:          sec.ID,
			Name:        sec.Name,
			StationIDs:  sec.Stations,
			GridRowSpan: sec.RowSpan,
			GridColSpan: sec.ColSpan,
		}
		if sec.Col != nil && sec.Row != nil {
			s.GridCol, s.GridRow = *sec.Col, *sec.Row
			rspan, cspan := sec.RowSpan, sec.ColSpan
			if rspan <= 0 {
				rspan = 1
			}
			if cspan <= 0 {
				cspan = 1
			}
			g.GridOverrides[sec.ID] = metro.GridOverride{
				Col: *sec.Col, Row: *sec.Row, RowSpan: rspan, ColSpan: cspan,
			}
		} else {
			s.GridCol, s.GridRow = -1, -1
		}
		if err := g.AddSection(s); err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.ID, err)
		}
		for _, sid := range sec.Stations {
			if st := g.Station(sid); st != nil {
				st.SectionID = sec.ID
			}
		}
		if sec.Direction != "" {
			d, ok := metro.ParseDirection(sec.Direction)
			if !ok {
				return nil, fmt.Errorf("section %s: unknown direction %q", sec.ID, sec.Direction)
			}
			g.SetExplicitDirection(sec.ID, d)
		}
	}

	for _, p := range data.Ports {
		side, ok := metro.ParseSide(p.Side)
		if !ok {
			return nil, fmt.Errorf("port %s: unknown side %q", p.ID, p.Side)
		}
		port := metro.Port{
			ID:        p.ID,
			SectionID: p.Section,
			Side:      side,
			IsEntry:   p.Entry,
			LineIDs:   p.Lines,
		}
		if err := g.AddPort(port); err != nil {
			return nil, fmt.Errorf("port %s: %w", p.ID, err)
		}
	}

	for _, jid := range data.Junctions {
		if err := g.AddJunction(jid); err != nil {
			return nil, fmt.Errorf("junction %s: %w", jid, err)
		}
	}

	for _, e := range data.Edges {
		if err := g.AddEdge(metro.Edge{Source: e.From, Target: e.To, LineID: e.Line}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ImportJSON reads a JSON graph file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes
// the file. Errors wrap the underlying cause with the file path.
func ImportJSON(path string) (*metro.MetroGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// exportGraph builds the serializable graph description from a graph.
func exportGraph(g *metro.MetroGraph) graphJSON {
	out := graphJSON{Title: g.Title, Style: g.Style}

	for _, lid := range g.LineOrder() {
		l := g.Line(lid)
		out.Lines = append(out.Lines, lineJSON{ID: l.ID, Name: l.Name, Color: l.Color})
	}
	for _, sid := range g.StationIDs() {
		st := g.Station(sid)
		if st.IsPort || g.IsJunction(sid) {
			continue
		}
		out.Stations = append(out.Stations, stationJSON{
			ID: st.ID, Label: st.Label, Hidden: st.IsHidden, Terminus: st.IsTerminus,
		})
	}
	for _, sec := range g.Sections() {
		sj := sectionJSON{
			ID:      sec.ID,
			Name:    sec.Name,
			RowSpan: sec.GridRowSpan,
			ColSpan: sec.GridColSpan,
		}
		// Member lists include ports, which re-register themselves on
		// import; only internal stations are written.
		for _, sid := range sec.StationIDs {
			if st := g.Station(sid); st != nil && !st.IsPort {
				sj.Stations = append(sj.Stations, sid)
			}
		}
		if ov, ok := g.GridOverrides[sec.ID]; ok {
			col, row := ov.Col, ov.Row
			sj.Col, sj.Row = &col, &row
		}
		if g.HasExplicitDirection(sec.ID) {
			sj.Direction = sec.Direction.String()
		}
		out.Sections = append(out.Sections, sj)
	}
	for _, pid := range g.PortIDs() {
		p := g.Port(pid)
		out.Ports = append(out.Ports, portJSON{
			ID: p.ID, Section: p.SectionID, Side: p.Side.String(),
			Entry: p.IsEntry, Lines: p.LineIDs,
		})
	}
	out.Junctions = append(out.Junctions, g.Junctions()...)
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edgeJSON{From: e.Source, To: e.Target, Line: e.LineID})
	}
	return out
}
