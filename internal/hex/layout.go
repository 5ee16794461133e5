package hex

import "math"

// Layout places a pointy-top grid on screen. Size is the hex radius
// (corner to center) in pixels, Origin is where (0, 0) is drawn.
type Layout struct {
	Size    float64
	OriginX float64
	OriginY float64
}

// NewLayout returns a layout with (0, 0) drawn at (originX, originY).
func NewLayout(size, originX, originY float64) Layout {
	return Layout{Size: size, OriginX: originX, OriginY: originY}
}

// AxialToPixel converts axial to pixel coordinates for pointy-top layout.
func (l Layout) AxialToPixel(a Axial) (x, y float64) {
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x = l.OriginX + l.Size*math.Sqrt(3)*(float64(a.Q)+float64(a.R)/2.0)
	y = l.OriginY + l.Size*1.5*float64(a.R)
	return
}

// PixelToAxial returns the tile containing the pixel (x, y).
func (l Layout) PixelToAxial(x, y float64) Axial {
	px := x - l.OriginX
	py := y - l.OriginY
	q := (math.Sqrt(3)/3*px - py/3) / l.Size
	r := (2.0 / 3.0 * py) / l.Size
	return RoundCube(q, -q-r, r).Axial()
}

// Shift moves the origin by (dx, dy).
func (l *Layout) Shift(dx, dy float64) {
	l.OriginX += dx
	l.OriginY += dy
}

// RoundCube rounds fractional cube coordinates to the nearest hex. The
// component with the largest rounding error is rebuilt from the other two
// so that x+y+z=0 holds exactly.
func RoundCube(x, y, z float64) Cube {
	rx := math.Round(x)
	ry := math.Round(y)
	rz := math.Round(z)

	dx := math.Abs(rx - x)
	dy := math.Abs(ry - y)
	dz := math.Abs(rz - z)

	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return Cube{X: int(rx), Y: int(ry), Z: int(rz)}
}
