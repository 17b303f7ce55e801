package route

import (
	"sort"

	"github.com/matzehuels/metromap/pkg/layout"
	"github.com/matzehuels/metromap/pkg/metro"
)

// ComputeStationOffsets assigns each (station, line) pair a Y offset so
// parallel lines keep a globally consistent slot inside bundles: a line
// that splits off and rejoins returns to its reserved position. The
// offset is the line's priority times offsetStep; stations in reversed
// sections flip to (maxPriority - priority) * offsetStep so the bundle
// ordering matches the reversed spatial flow.
//
// Three boundary corrections follow the base pass: LEFT/RIGHT exit
// ports of TB sections take the mirror of the feeding internal offsets
// (the concentric exit arc swaps the ordering), junctions inherit the
// offsets of the exit port feeding them, and TOP entry ports fed by TB
// BOTTOM exits take the exit port's locally reversed offsets so there
// is no jump at the section boundary.
func ComputeStationOffsets(g *metro.MetroGraph, offsetStep float64) Offsets {
	if offsetStep <= 0 {
		offsetStep = layout.OffsetStep
	}

	priority := g.LinePriority()
	maxPriority := g.LineCount() - 1
	if maxPriority < 0 {
		maxPriority = 0
	}

	reversedSecs := DetectReversedSections(g)

	offsets := make(Offsets)
	for _, sid := range g.StationIDs() {
		lines := g.StationLines(sid)
		if len(lines) == 0 {
			continue
		}
		reverse := reversedSecs[g.Station(sid).SectionID]
		for _, lid := range lines {
			p := priority[lid]
			if reverse {
				offsets[stationLine{sid, lid}] = float64(maxPriority-p) * offsetStep
			} else {
				offsets[stationLine{sid, lid}] = float64(p) * offsetStep
			}
		}
	}

	tbSections := make(map[string]bool)
	for _, sec := range g.Sections() {
		if sec.Direction == metro.DirTB {
			tbSections[sec.ID] = true
		}
	}

	// TB LEFT/RIGHT exit ports mirror the feeding internal offsets. In
	// reversed sections the internal offsets already account for the
	// flip, so they pass through unchanged.
	for _, portID := range g.PortIDs() {
		port := g.Port(portID)
		if port.IsEntry || !tbSections[port.SectionID] || !port.Side.Horizontal() {
			continue
		}
		internalOffs := make(map[string]float64)
		var internalLines []string
		for _, e := range g.Edges() {
			if e.Target != portID {
				continue
			}
			if src := g.Station(e.Source); src != nil && !src.IsPort {
				if _, seen := internalOffs[e.LineID]; !seen {
					internalLines = append(internalLines, e.LineID)
				}
				internalOffs[e.LineID] = offsets[stationLine{e.Source, e.LineID}]
			}
		}
		if len(internalOffs) == 0 {
			continue
		}
		maxInt := internalOffs[internalLines[0]]
		for _, lid := range internalLines[1:] {
			if internalOffs[lid] > maxInt {
				maxInt = internalOffs[lid]
			}
		}
		for _, lid := range internalLines {
			offsets[stationLine{portID, lid}] = maxInt - internalOffs[lid]
		}
	}

	// Junctions carry no section, so the base pass gave them plain
	// priority ordering; inherit from the upstream exit port instead.
	for _, jid := range g.Junctions() {
		for _, e := range g.Edges() {
			if e.Target != jid {
				continue
			}
			src := g.Station(e.Source)
			port := g.Port(e.Source)
			if src == nil || !src.IsPort || port == nil || port.IsEntry {
				continue
			}
			for _, lid := range g.StationLines(jid) {
				if off, ok := offsets[stationLine{e.Source, lid}]; ok {
					offsets[stationLine{jid, lid}] = off
				}
			}
			break
		}
	}

	// TOP entry ports fed by TB BOTTOM exits must match the locally
	// reversed exit offsets the inter-section route applies, not the
	// global priority ordering.
	tbRightEntry := make(map[string]bool)
	for _, portID := range g.PortIDs() {
		port := g.Port(portID)
		if port.IsEntry && port.Side == metro.SideRight && tbSections[port.SectionID] {
			tbRightEntry[port.SectionID] = true
		}
	}

	for _, portID := range g.PortIDs() {
		port := g.Port(portID)
		if !port.IsEntry || port.Side != metro.SideTop {
			continue
		}
		for _, e := range g.Edges() {
			if e.Target != portID {
				continue
			}
			src := g.Station(e.Source)
			if src == nil || !src.IsPort {
				continue
			}
			srcPort := g.Port(e.Source)
			if srcPort == nil || srcPort.IsEntry || srcPort.Side != metro.SideBottom || !tbSections[src.SectionID] {
				continue
			}
			exitPortID := e.Source
			maxExitOff := 0.0
			for _, lid := range g.StationLines(exitPortID) {
				if off := offsets[stationLine{exitPortID, lid}]; off > maxExitOff {
					maxExitOff = off
				}
			}
			if tbRightEntry[src.SectionID] {
				for _, lid := range g.StationLines(portID) {
					offsets[stationLine{portID, lid}] = offsets[stationLine{exitPortID, lid}]
				}
			} else {
				for _, lid := range g.StationLines(portID) {
					offsets[stationLine{portID, lid}] = maxExitOff - offsets[stationLine{exitPortID, lid}]
				}
			}
			break
		}
	}

	return offsets
}

// Offsets is the exported view of the station offset table, keyed by
// station and line ID.
type Offsets map[stationLine]float64

// Get returns the offset for a station/line pair, zero when absent.
func (o Offsets) Get(stationID, lineID string) float64 {
	return o[stationLine{stationID, lineID}]
}

// Set stores the offset for a station/line pair.
func (o Offsets) Set(stationID, lineID string, off float64) {
	o[stationLine{stationID, lineID}] = off
}

// OffsetEntry is one (station, line, offset) triple.
type OffsetEntry struct {
	StationID string
	LineID    string
	Offset    float64
}

// Entries returns all offsets sorted by station then line ID, for
// deterministic serialization.
func (o Offsets) Entries() []OffsetEntry {
	entries := make([]OffsetEntry, 0, len(o))
	for k, off := range o {
		entries = append(entries, OffsetEntry{k.stationID, k.lineID, off})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StationID != entries[j].StationID {
			return entries[i].StationID < entries[j].StationID
		}
		return entries[i].LineID < entries[j].LineID
	})
	return entries
}
