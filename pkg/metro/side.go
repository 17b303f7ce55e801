package metro

import "fmt"

// Side identifies the boundary edge of a section where a port sits.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// String returns the lowercase name of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Horizontal reports whether the side is LEFT or RIGHT.
// Ports on horizontal sides carry flow in or out along the X axis.
func (s Side) Horizontal() bool { return s == SideLeft || s == SideRight }

// Vertical reports whether the side is TOP or BOTTOM.
func (s Side) Vertical() bool { return s == SideTop || s == SideBottom }

// ParseSide converts a side name to a Side.
// Returns SideLeft and false for unknown names.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "left":
		return SideLeft, true
	case "right":
		return SideRight, true
	case "top":
		return SideTop, true
	case "bottom":
		return SideBottom, true
	}
	return SideLeft, false
}

// Direction is the internal flow direction of a section.
type Direction int

const (
	// DirLR flows left to right (the default for pipeline sections).
	DirLR Direction = iota
	// DirRL flows right to left (return rows after a fold).
	DirRL
	// DirTB flows top to bottom (fold bridges between row bands).
	DirTB
)

// String returns the conventional two-letter name of the direction.
func (d Direction) String() string {
	switch d {
	case DirLR:
		return "LR"
	case DirRL:
		return "RL"
	case DirTB:
		return "TB"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection converts a two-letter direction tag to a Direction.
// Returns DirLR and false for unknown tags.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "LR":
		return DirLR, true
	case "RL":
		return DirRL, true
	case "TB":
		return DirTB, true
	}
	return DirLR, false
}
