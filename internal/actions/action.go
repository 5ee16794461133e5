package actions

import (
	"fmt"

	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// Type is the kind of a turn action, as tagged on the wire.
type Type string

const (
	Place Type = "P"
	Move  Type = "M"
	Skip  Type = "S"
)

// ParseType decodes a wire action tag.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Place, Move, Skip:
		return Type(s), true
	}
	return "", false
}

// Action is one turn: a placement of an unplaced piece, a move of the top
// piece of a tile, or a skip.
type Action struct {
	Type  Type
	Owner board.Owner
	Kind  board.PieceKind // Place only
	From  hex.Axial       // Move only
	To    hex.Axial
}

func (a Action) String() string {
	switch a.Type {
	case Place:
		return fmt.Sprintf("%s places %s at %s", a.Owner, a.Kind, a.To)
	case Move:
		return fmt.Sprintf("%s moves %s -> %s", a.Owner, a.From, a.To)
	default:
		return fmt.Sprintf("%s skips", a.Owner)
	}
}
