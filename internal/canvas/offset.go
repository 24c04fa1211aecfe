package canvas

// ResolveOrigin places content of size d on an axis of length bound.
// A non-negative offset is measured from the near edge. A negative offset is
// measured from the far edge and resolves to bound + offset - d.
func ResolveOrigin(d, offset, bound int) int {
	if offset >= 0 {
		return offset
	}
	return bound + offset - d
}

// Placement maps content-local coordinates to absolute canvas coordinates.
// Coordinates are not clipped; the encoder drops whatever falls off the canvas.
type Placement struct {
	X, Y int
}

// Place resolves both axes for content of the given size.
func Place(content Dimensions, offsetX, offsetY int, canvas Dimensions) Placement {
	return Placement{
		X: ResolveOrigin(content.Width, offsetX, canvas.Width),
		Y: ResolveOrigin(content.Height, offsetY, canvas.Height),
	}
}

// Apply returns the absolute coordinates of content-local (x, y).
func (p Placement) Apply(x, y int) (int, int) {
	return p.X + x, p.Y + y
}
