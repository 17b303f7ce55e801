package route

import "github.com/matzehuels/metromap/pkg/metro"

// DetectReversedSections finds sections whose incoming bundle ordering
// is flipped. A section is reversed when it receives lines through a TB
// section's exit in a way that inverts the bundle:
//
//  1. a TOP entry fed by a TB section's BOTTOM exit (the TB section
//     reverses X offsets in the vertical bundle), or
//  2. a LEFT/RIGHT entry fed by a non-reversed TB section's LEFT/RIGHT
//     exit (the concentric corner swaps the ordering), including feeds
//     routed through a junction.
//
// Reversal propagates to successors on the same grid row and to direct
// horizontal successors (LEFT/RIGHT exit into LEFT/RIGHT entry), which
// continue the bundle without a direction change. TB sections never
// propagate: their exit L-shape un-reverses the bundle. The scan runs
// to a fixed point; it only ever adds sections, so it terminates within
// the section count.
func DetectReversedSections(g *metro.MetroGraph) map[string]bool {
	tbSections := make(map[string]bool)
	for _, sec := range g.Sections() {
		if sec.Direction == metro.DirTB {
			tbSections[sec.ID] = true
		}
	}
	reversed := make(map[string]bool)

	// Sections directly fed by TB BOTTOM exits.
	for _, sec := range g.Sections() {
		for _, portID := range sec.EntryPorts {
			port := g.Port(portID)
			if port == nil || port.Side != metro.SideTop {
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
				if srcPort != nil && !srcPort.IsEntry && srcPort.Side == metro.SideBottom && tbSections[src.SectionID] {
					reversed[sec.ID] = true
				}
			}
		}
	}

	secSuccessors := make(map[string][]string)
	for _, e := range g.Edges() {
		src, tgt := g.Station(e.Source), g.Station(e.Target)
		if src == nil || tgt == nil {
			continue
		}
		if src.SectionID != "" && tgt.SectionID != "" && src.SectionID != tgt.SectionID {
			secSuccessors[src.SectionID] = appendUniqueString(secSuccessors[src.SectionID], tgt.SectionID)
		}
	}

	isHorizontalSuccessor := func(secID, succID string) bool {
		for _, e := range g.Edges() {
			src, tgt := g.Station(e.Source), g.Station(e.Target)
			if src == nil || tgt == nil || src.SectionID != secID || tgt.SectionID != succID {
				continue
			}
			srcPort, tgtPort := g.Port(e.Source), g.Port(e.Target)
			if srcPort != nil && !srcPort.IsEntry && srcPort.Side.Horizontal() &&
				tgtPort != nil && tgtPort.IsEntry && tgtPort.Side.Horizontal() {
				return true
			}
		}
		return false
	}

	propagateAlongRows := func() {
		changed := true
		for changed {
			changed = false
			for _, sec := range g.Sections() {
				if !reversed[sec.ID] || tbSections[sec.ID] {
					continue
				}
				for _, succID := range secSuccessors[sec.ID] {
					if reversed[succID] {
						continue
					}
					succ := g.Section(succID)
					if succ == nil {
						continue
					}
					if succ.GridRow == sec.GridRow || isHorizontalSuccessor(sec.ID, succID) {
						reversed[succID] = true
						changed = true
					}
				}
			}
		}
	}

	propagateAlongRows()

	// A TB LEFT/RIGHT exit reverses the bundle only while the TB
	// section itself is non-reversed; once the TB section is reversed
	// its exit un-reverses back to standard ordering. Sections are
	// processed one at a time with re-propagation in between, since row
	// propagation can flip a later TB section's status.
	isTBExitNonreversed := func(port *metro.Port) bool {
		return port != nil && !port.IsEntry && port.Side.Horizontal() &&
			tbSections[port.SectionID] && !reversed[port.SectionID]
	}

	stable := false
	for !stable {
		stable = true

	scan:
		for _, sec := range g.Sections() {
			if reversed[sec.ID] {
				continue
			}
			for _, portID := range sec.EntryPorts {
				port := g.Port(portID)
				if port == nil || !port.Side.Horizontal() {
					continue
				}
				for _, e := range g.Edges() {
					if e.Target != portID {
						continue
					}
					src := g.Station(e.Source)
					if src == nil {
						continue
					}
					matched := false
					if g.IsJunction(e.Source) {
						for _, e2 := range g.Edges() {
							if e2.Target != e.Source {
								continue
							}
							if s2 := g.Station(e2.Source); s2 != nil && s2.IsPort && isTBExitNonreversed(g.Port(e2.Source)) {
								matched = true
								break
							}
						}
					} else if src.IsPort {
						matched = isTBExitNonreversed(g.Port(e.Source))
					}
					if matched {
						reversed[sec.ID] = true
						propagateAlongRows()
						stable = false
						break scan
					}
				}
			}
		}
	}

	return reversed
}

func appendUniqueString(xs []string, s string) []string {
	for _, x := range xs {
		if x == s {
			return xs
		}
	}
	return append(xs, s)
}
