// Package hex is the axial coordinate system of the board and its pixel
// layout.
package hex

import "fmt"

// Axial is a tile address (q, r) on a pointy-top grid.
type Axial struct {
	Q int
	R int
}

// Cube is the same address with the redundant third axis, x+y+z=0.
type Cube struct {
	X int
	Y int
	Z int
}

// Directions to the six neighbors, counter-clockwise from east.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Origin is the first tile of every board.
var Origin = Axial{}

// Add returns a+b.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Scale returns a repeated k times.
func (a Axial) Scale(k int) Axial { return Axial{a.Q * k, a.R * k} }

// Neighbors returns the six adjacent coordinates in Directions order.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = a.Add(d)
	}
	return out
}

// Less orders coordinates row first, then column.
func (a Axial) Less(b Axial) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	return a.Q < b.Q
}

// String renders the coordinate as it travels on the wire: "q r".
func (a Axial) String() string { return fmt.Sprintf("%d %d", a.Q, a.R) }

// Cube returns a in cube coordinates.
func (a Axial) Cube() Cube { return Cube{X: a.Q, Y: -a.Q - a.R, Z: a.R} }

// Axial drops the redundant axis.
func (c Cube) Axial() Axial { return Axial{Q: c.X, R: c.Z} }

// Distance is the number of steps between a and b.
func Distance(a, b Axial) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.Q + a.R - b.Q - b.R)
	return max(dq, dr, ds)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
