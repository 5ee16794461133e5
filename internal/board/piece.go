package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPiece is returned when a piece kind or owner cannot be parsed.
var ErrUnknownPiece = errors.New("unknown piece")

// Owner identifies one of the two players.
type Owner int

const (
	Player1 Owner = iota
	Player2
)

// Opponent returns the other player.
func (o Owner) Opponent() Owner {
	if o == Player1 {
		return Player2
	}
	return Player1
}

// Sign is the wire encoding of the owner: +1 for Player1, -1 for Player2.
func (o Owner) Sign() int {
	if o == Player2 {
		return -1
	}
	return 1
}

func (o Owner) String() string {
	if o == Player2 {
		return "Player 2"
	}
	return "Player 1"
}

// OwnerFromSign decodes the ±1 player field.
func OwnerFromSign(v int) (Owner, error) {
	switch v {
	case 1:
		return Player1, nil
	case -1:
		return Player2, nil
	}
	return Player1, fmt.Errorf("%w: player %d", ErrUnknownPiece, v)
}

// PieceKind is one of the five zombie game pieces.
type PieceKind int

const (
	Necromancer PieceKind = iota + 1
	Hugger
	Jumper
	Creeper
	Sprinter
)

// Kinds lists every piece kind in reserve order.
var Kinds = [...]PieceKind{Necromancer, Hugger, Jumper, Creeper, Sprinter}

var kindNames = map[PieceKind]string{
	Necromancer: "Necromancer",
	Hugger:      "Hugger",
	Jumper:      "Jumper",
	Creeper:     "Creeper",
	Sprinter:    "Sprinter",
}

// Valid reports whether k is one of the five kinds.
func (k PieceKind) Valid() bool { return k >= Necromancer && k <= Sprinter }

func (k PieceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PieceKind(%d)", int(k))
}

// Signed is the wire encoding of a kind owned by o (negative for Player2).
func (k PieceKind) Signed(o Owner) int { return int(k) * o.Sign() }

// KindFromSigned decodes a signed kind; the sign is ignored.
func KindFromSigned(v int) (PieceKind, error) {
	if v < 0 {
		v = -v
	}
	k := PieceKind(v)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: kind %d", ErrUnknownPiece, v)
	}
	return k, nil
}

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (PieceKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPiece, s)
}

// Piece is an owned piece on the board or in a reserve.
type Piece struct {
	Owner Owner
	Kind  PieceKind
}

func (p Piece) String() string {
	return fmt.Sprintf("%s (%s)", p.Kind, p.Owner)
}
