package transform

import "math"

// Handle identifies a drag affordance on the image frame.
type Handle string

const (
	HandleNW     Handle = "nw"
	HandleNE     Handle = "ne"
	HandleSE     Handle = "se"
	HandleSW     Handle = "sw"
	HandleRotate Handle = "rotate"
)

// Point is a pointer position in stage pixels.
type Point struct {
	X float64
	Y float64
}

// Drag is one pointer-capture session against a handle. Every Move
// recomputes from the state captured at StartDrag, so a pointer that
// returns to its start position restores the initial state exactly.
type Drag struct {
	target   *State
	handle   Handle
	start    State
	startVec Point
}

// StartDrag begins a handle drag at the given pointer position.
func (s *State) StartDrag(h Handle, pointer Point) *Drag {
	return &Drag{
		target: s,
		handle: h,
		start:  *s,
		startVec: Point{
			X: pointer.X - s.CX,
			Y: pointer.Y - s.CY,
		},
	}
}

// Move updates the live state for the current pointer position. Corner
// handles scale uniformly by pointer distance (sign-flipping an axis
// when the pointer crosses the center), or shear along the dominant
// axis while shift is held. The rotate handle applies the pointer angle
// delta.
func (d *Drag) Move(pointer Point, shift bool) {
	cur := Point{
		X: pointer.X - d.start.CX,
		Y: pointer.Y - d.start.CY,
	}

	next := d.start

	switch d.handle {
	case HandleRotate:
		delta := math.Atan2(cur.Y, cur.X) - math.Atan2(d.startVec.Y, d.startVec.X)
		next.Angle = normalizeAngle(d.start.Angle + delta)

	case HandleNW, HandleNE, HandleSE, HandleSW:
		if shift {
			d.applyShear(&next, cur)
			break
		}
		startDist := math.Hypot(d.startVec.X, d.startVec.Y)
		curDist := math.Hypot(cur.X, cur.Y)
		if startDist > 0 {
			next.Scale = d.start.Scale * (curDist / startDist)
			if next.Scale < MinScale {
				next.Scale = MinScale
			}
		}
		// Crossing the center flips the corresponding axis.
		if d.startVec.X*cur.X < 0 {
			next.SignX = -d.start.SignX
		}
		if d.startVec.Y*cur.Y < 0 {
			next.SignY = -d.start.SignY
		}

	default:
		return
	}

	*d.target = next
}

func (d *Drag) applyShear(next *State, cur Point) {
	dx := cur.X - d.startVec.X
	dy := cur.Y - d.startVec.Y

	refW := d.start.NatW * d.start.Scale / 2
	refH := d.start.NatH * d.start.Scale / 2
	if refW < 1 {
		refW = 1
	}
	if refH < 1 {
		refH = 1
	}

	if math.Abs(dx) >= math.Abs(dy) {
		next.ShearX = d.start.ShearX + dx/refW
	} else {
		next.ShearY = d.start.ShearY + dy/refH
	}
}
