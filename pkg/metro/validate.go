package metro

import (
	apperrors "github.com/matzehuels/metromap/pkg/errors"
)

// Validate checks the structural invariants the layout engine relies on:
// every edge endpoint exists, every port belongs to an existing section and
// appears in exactly one of its entry/exit lists, every section member
// exists and points back at its section, and grid cells are either fully
// assigned or fully unassigned.
//
// Returns a coded error (UNKNOWN_STATION, INVALID_SECTION, INVALID_GRAPH)
// describing the first violation found, scanning in insertion order.
func (g *MetroGraph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.stations[e.Source]; !ok {
			return apperrors.New(apperrors.ErrCodeUnknownStation, "edge references unknown source %q", e.Source)
		}
		if _, ok := g.stations[e.Target]; !ok {
			return apperrors.New(apperrors.ErrCodeUnknownStation, "edge references unknown target %q", e.Target)
		}
		if e.LineID != "" {
			if _, ok := g.lines[e.LineID]; !ok {
				return apperrors.New(apperrors.ErrCodeInvalidGraph, "edge %s->%s references unknown line %q", e.Source, e.Target, e.LineID)
			}
		}
	}

	for _, sid := range g.sectionOrder {
		sec := g.sections[sid]
		for _, member := range sec.StationIDs {
			st, ok := g.stations[member]
			if !ok {
				return apperrors.New(apperrors.ErrCodeInvalidSection, "section %q lists unknown station %q", sid, member)
			}
			if st.SectionID != sid {
				return apperrors.New(apperrors.ErrCodeInvalidSection, "station %q listed in section %q but owned by %q", member, sid, st.SectionID)
			}
		}
		if (sec.GridCol >= 0) != (sec.GridRow >= 0) {
			return apperrors.New(apperrors.ErrCodeInvalidSection, "section %q has a partial grid cell (col=%d row=%d)", sid, sec.GridCol, sec.GridRow)
		}
	}

	for _, pid := range g.portOrder {
		port := g.ports[pid]
		sec, ok := g.sections[port.SectionID]
		if !ok {
			return apperrors.New(apperrors.ErrCodeInvalidSection, "port %q references unknown section %q", pid, port.SectionID)
		}
		entry := containsString(sec.EntryPorts, pid)
		exit := containsString(sec.ExitPorts, pid)
		if entry == exit {
			return apperrors.New(apperrors.ErrCodeInvalidSection, "port %q must appear in exactly one of section %q entry/exit lists", pid, port.SectionID)
		}
		if st := g.stations[pid]; st == nil || !st.IsPort {
			return apperrors.New(apperrors.ErrCodeInvalidGraph, "port %q has no backing port station", pid)
		}
	}

	return nil
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
