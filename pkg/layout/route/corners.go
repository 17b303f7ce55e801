package route

// Concentric corner geometry for bundled lines. When n parallel lines
// turn a corner together, each gets a different arc radius so the arcs
// nest instead of crossing: the line on the outside of the turn always
// takes the largest radius. Every radius is base + k*step for a unique
// k in [0, n-1].

// ReversedOffset flips a line's offset within a bundle, mapping the
// outermost line (offset == maxOffset) to 0 and the innermost to
// maxOffset. Applying it twice is the identity.
func ReversedOffset(offset, maxOffset float64) float64 {
	return maxOffset - offset
}

// LShapeRadii computes the channel offset and corner radii for line i
// of an n-line bundle routed horizontal -> vertical -> horizontal.
//
// Going down, i=0 sits rightmost: the first corner turns clockwise so
// the rightmost line is outside and takes the largest radius, while the
// second corner turns counter-clockwise and the same line is inside
// with the smallest. Going up the roles mirror. Either way a line's two
// radii sum to 2*base + (n-1)*step, so it is outside exactly one
// corner.
func LShapeRadii(i, n int, goingDown bool, offsetStep, baseRadius float64) (delta, rFirst, rSecond float64) {
	if goingDown {
		delta = (float64(n-1)/2 - float64(i)) * offsetStep
		rFirst = baseRadius + float64(n-1-i)*offsetStep
		rSecond = baseRadius + float64(i)*offsetStep
	} else {
		delta = (float64(i) - float64(n-1)/2) * offsetStep
		rFirst = baseRadius + float64(i)*offsetStep
		rSecond = baseRadius + float64(n-1-i)*offsetStep
	}
	return delta, rFirst, rSecond
}

// TBExitCorner computes the segment offsets and arc radius for the
// L-shape leaving a TB section through a LEFT or RIGHT exit port: a
// vertical drop from the last station, one corner, then horizontal to
// the port.
//
// The horizontal Y offset and the radius always use the reversed
// offset, so the outermost vertical line maps to the largest radius. A
// RIGHT exit turns counter-clockwise and keeps the non-reversed offset
// on the vertical segment; a LEFT exit turns clockwise and reverses it.
func TBExitCorner(srcOff, maxSrcOff float64, exitRight bool, baseRadius float64) (vertXOff, horizYOff, radius float64) {
	rev := ReversedOffset(srcOff, maxSrcOff)
	horizYOff = rev
	radius = baseRadius + rev
	if exitRight {
		vertXOff = srcOff
	} else {
		vertXOff = rev
	}
	return vertXOff, horizYOff, radius
}

// TBEntryCorner computes the vertical X offset and arc radius for the
// L-shape entering a TB section through a LEFT or RIGHT entry port:
// horizontal from the port, one corner, then a vertical drop to the
// first internal station. The radius uses the reversed target offset;
// a RIGHT entry keeps the non-reversed offset on the vertical segment.
func TBEntryCorner(tgtOff, maxTgtOff float64, entryRight bool, baseRadius float64) (vertXOff, radius float64) {
	rev := ReversedOffset(tgtOff, maxTgtOff)
	radius = baseRadius + rev
	if entryRight {
		vertXOff = tgtOff
	} else {
		vertXOff = rev
	}
	return vertXOff, radius
}
