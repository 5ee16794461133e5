// Package actions holds the actions the server allows for the current turn
// and the action value the player commits.
package actions

import (
	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// Catalog is the set of grants for one turn. Entries are only ever appended;
// the whole catalog is cleared before a new grant and after a commit.
type Catalog struct {
	placements map[board.PieceKind][]hex.Axial
	moves      map[hex.Axial][]hex.Axial
	kinds      []board.PieceKind
	origins    []hex.Axial
	mustSkip   bool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		placements: make(map[board.PieceKind][]hex.Axial),
		moves:      make(map[hex.Axial][]hex.Axial),
	}
}

// GrantPlacement allows placing a piece of kind at to.
func (c *Catalog) GrantPlacement(kind board.PieceKind, to hex.Axial) {
	if _, ok := c.placements[kind]; !ok {
		c.kinds = append(c.kinds, kind)
	}
	c.placements[kind] = append(c.placements[kind], to)
}

// GrantMove allows moving the top piece of from onto to.
func (c *Catalog) GrantMove(from, to hex.Axial) {
	if _, ok := c.moves[from]; !ok {
		c.origins = append(c.origins, from)
	}
	c.moves[from] = append(c.moves[from], to)
}

// GrantSkip marks that the only legal action is to skip the turn.
func (c *Catalog) GrantSkip() { c.mustSkip = true }

// Clear drops every grant.
func (c *Catalog) Clear() {
	clear(c.placements)
	clear(c.moves)
	c.kinds = c.kinds[:0]
	c.origins = c.origins[:0]
	c.mustSkip = false
}

// Placements returns the targets granted for kind, in arrival order.
func (c *Catalog) Placements(kind board.PieceKind) ([]hex.Axial, bool) {
	targets, ok := c.placements[kind]
	return targets, ok
}

// Moves returns the targets granted for the piece at from, in arrival order.
func (c *Catalog) Moves(from hex.Axial) ([]hex.Axial, bool) {
	targets, ok := c.moves[from]
	return targets, ok
}

// CanPlace reports whether kind may be placed at to.
func (c *Catalog) CanPlace(kind board.PieceKind, to hex.Axial) bool {
	return contains(c.placements[kind], to)
}

// CanMove reports whether the piece at from may move to to.
func (c *Catalog) CanMove(from, to hex.Axial) bool {
	return contains(c.moves[from], to)
}

// Kinds returns the piece kinds with at least one placement, in arrival order.
func (c *Catalog) Kinds() []board.PieceKind {
	return append([]board.PieceKind(nil), c.kinds...)
}

// Origins returns the tiles with at least one move, in arrival order.
func (c *Catalog) Origins() []hex.Axial {
	return append([]hex.Axial(nil), c.origins...)
}

// MustSkip reports whether the server asked the player to skip.
func (c *Catalog) MustSkip() bool { return c.mustSkip }

// Empty reports whether nothing is granted.
func (c *Catalog) Empty() bool {
	return len(c.placements) == 0 && len(c.moves) == 0 && !c.mustSkip
}

func contains(coords []hex.Axial, target hex.Axial) bool {
	for _, c := range coords {
		if c == target {
			return true
		}
	}
	return false
}
