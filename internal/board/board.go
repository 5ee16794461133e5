// Package board holds the client-side model of the zombie hex board: tiles
// with stacks of pieces, the empty fringe around them and the turn state.
//
// The board always shows a navigable fringe: every neighbor of an occupied
// tile exists, and empty tiles with no occupied neighbor are pruned.
package board

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/gravitas-games/zombies/internal/hex"
)

var (
	// ErrTileNotFound is returned when an operation targets a coordinate the
	// board does not hold. It means the client is out of sync with the server.
	ErrTileNotFound = errors.New("tile not found")
	// ErrTileOccupied is returned when placing onto a non-empty tile.
	ErrTileOccupied = errors.New("tile is occupied")
	// ErrTileEmpty is returned when moving from a tile with no piece.
	ErrTileEmpty = errors.New("tile is empty")
)

// Tile is one hex of the board.
type Tile struct {
	coord hex.Axial
	stack Stack
}

// Coord returns the tile position.
func (t *Tile) Coord() hex.Axial { return t.coord }

// Stack returns a copy of the pieces on the tile.
func (t *Tile) Stack() Stack { return Stack{pieces: t.stack.Pieces()} }

// Empty reports whether the tile holds no piece.
func (t *Tile) Empty() bool { return t.stack.Empty() }

// Top returns the active piece of the tile.
func (t *Tile) Top() (Piece, bool) { return t.stack.Top() }

// Board maps coordinates to tiles and keeps the layout centered on the view.
type Board struct {
	tiles   map[hex.Axial]*Tile
	layout  hex.Layout
	centerX float64
	centerY float64
}

// New creates the starting board: a single empty tile at the origin, drawn
// at (centerX, centerY) with tiles of the given radius.
func New(tileSize, centerX, centerY float64) *Board {
	b := &Board{
		tiles:   make(map[hex.Axial]*Tile),
		layout:  hex.NewLayout(tileSize, centerX, centerY),
		centerX: centerX,
		centerY: centerY,
	}
	b.tiles[hex.Origin] = &Tile{coord: hex.Origin}
	b.recenter()
	return b
}

// Place puts piece on the empty tile at coord, creating it if needed, and
// grows the fringe around it.
func (b *Board) Place(coord hex.Axial, piece Piece) error {
	t, ok := b.tiles[coord]
	if !ok {
		t = &Tile{coord: coord}
		b.tiles[coord] = t
	} else if !t.Empty() {
		return fmt.Errorf("%w: place %s at %s", ErrTileOccupied, piece.Kind, coord)
	}
	t.stack = Stack{}
	t.stack.Push(piece)

	b.ensureAround(coord)
	b.recenter()
	return nil
}

// Unplace empties the tile at coord and prunes the neighbors left isolated.
func (b *Board) Unplace(coord hex.Axial) error {
	t, ok := b.tiles[coord]
	if !ok {
		return fmt.Errorf("%w: unplace at %s", ErrTileNotFound, coord)
	}
	t.stack = Stack{}

	b.pruneAround(coord)
	b.recenter()
	return nil
}

// MoveTop pops the top piece of from and pushes it onto to. Moving onto an
// occupied tile stacks the piece on top of it.
func (b *Board) MoveTop(from, to hex.Axial) (Piece, error) {
	src, ok := b.tiles[from]
	if !ok {
		return Piece{}, fmt.Errorf("%w: move from %s", ErrTileNotFound, from)
	}
	dst, ok := b.tiles[to]
	if !ok {
		return Piece{}, fmt.Errorf("%w: move to %s", ErrTileNotFound, to)
	}
	piece, ok := src.stack.Pop()
	if !ok {
		return Piece{}, fmt.Errorf("%w: move from %s", ErrTileEmpty, from)
	}
	dst.stack.Push(piece)

	// Grow first so that pruning around the source never drops the destination.
	b.ensureAround(to)
	b.pruneAround(from)
	b.recenter()
	return piece, nil
}

// IsIsolated reports whether every neighbor of coord is absent or empty.
func (b *Board) IsIsolated(coord hex.Axial) bool {
	for _, n := range coord.Neighbors() {
		if t, ok := b.tiles[n]; ok && !t.Empty() {
			return false
		}
	}
	return true
}

// Tile returns the tile at coord.
func (b *Board) Tile(coord hex.Axial) (*Tile, bool) {
	t, ok := b.tiles[coord]
	return t, ok
}

// Has reports whether a tile exists at coord.
func (b *Board) Has(coord hex.Axial) bool {
	_, ok := b.tiles[coord]
	return ok
}

// Len returns the number of tiles, empty ones included.
func (b *Board) Len() int { return len(b.tiles) }

// Tiles returns every tile ordered by coordinate.
func (b *Board) Tiles() []*Tile {
	out := make([]*Tile, 0, len(b.tiles))
	for _, t := range b.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].coord.Less(out[j].coord) })
	return out
}

// Layout returns the current pixel layout.
func (b *Board) Layout() hex.Layout { return b.layout }

// TileAt hit-tests a pixel against the board.
func (b *Board) TileAt(x, y float64) (*Tile, bool) {
	return b.Tile(b.layout.PixelToAxial(x, y))
}

func (b *Board) ensureAround(coord hex.Axial) {
	for _, n := range coord.Neighbors() {
		if _, ok := b.tiles[n]; !ok {
			b.tiles[n] = &Tile{coord: n}
		}
	}
}

func (b *Board) pruneAround(coord hex.Axial) {
	for _, n := range coord.Neighbors() {
		if t, ok := b.tiles[n]; ok && t.Empty() && b.IsIsolated(n) {
			delete(b.tiles, n)
		}
	}
}

// Rect is a pixel rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Center returns the middle of r.
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Bounds returns the bounding box of all tile centers under the current
// layout. The boolean is false for a board with no tiles.
func (b *Board) Bounds() (Rect, bool) {
	if len(b.tiles) == 0 {
		return Rect{}, false
	}
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for c := range b.tiles {
		x, y := b.layout.AxialToPixel(c)
		r.MinX = math.Min(r.MinX, x)
		r.MinY = math.Min(r.MinY, y)
		r.MaxX = math.Max(r.MaxX, x)
		r.MaxY = math.Max(r.MaxY, y)
	}
	return r, true
}

// Radius is the distance from the origin to the farthest tile.
func (b *Board) Radius() int {
	radius := 0
	for c := range b.tiles {
		radius = max(radius, hex.Distance(hex.Origin, c))
	}
	return radius
}

// recenter shifts the layout so the bounding box of all tile centers sits
// on the view center.
func (b *Board) recenter() {
	r, ok := b.Bounds()
	if !ok {
		return
	}
	x, y := r.Center()
	b.layout.Shift(b.centerX-x, b.centerY-y)
}
