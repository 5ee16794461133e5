package board

import (
	"errors"
	"fmt"
)

var (
	// ErrReserveEmpty is returned when a placement would take a piece the
	// player no longer has.
	ErrReserveEmpty = errors.New("no piece left in reserve")
	// ErrReserveFull is returned when an undo would give back more pieces
	// than the game starts with.
	ErrReserveFull = errors.New("reserve already full")
)

// StartingQuantity is how many pieces of each kind a player starts with.
var StartingQuantity = map[PieceKind]int{
	Necromancer: 1,
	Hugger:      2,
	Jumper:      3,
	Creeper:     2,
	Sprinter:    3,
}

// TurnState tracks whose turn it is, the step counter and the unplaced
// pieces of both players.
type TurnState struct {
	Current Owner
	Step    int

	reserve [2]map[PieceKind]int
}

// NewTurnState returns the state of a fresh game: step 1, Player1 to play,
// full reserves.
func NewTurnState() *TurnState {
	t := &TurnState{Current: Player1, Step: 1}
	for i := range t.reserve {
		t.reserve[i] = make(map[PieceKind]int, len(StartingQuantity))
		for k, qty := range StartingQuantity {
			t.reserve[i][k] = qty
		}
	}
	return t
}

// Remaining returns how many unplaced pieces of kind k player o holds.
func (t *TurnState) Remaining(o Owner, k PieceKind) int {
	return t.reserve[o][k]
}

// Take removes one piece of kind k from o's reserve.
func (t *TurnState) Take(o Owner, k PieceKind) error {
	if t.reserve[o][k] <= 0 {
		return fmt.Errorf("%w: %s has no %s", ErrReserveEmpty, o, k)
	}
	t.reserve[o][k]--
	return nil
}

// Restore gives one piece of kind k back to o's reserve.
func (t *TurnState) Restore(o Owner, k PieceKind) error {
	if t.reserve[o][k] >= StartingQuantity[k] {
		return fmt.Errorf("%w: %s already holds every %s", ErrReserveFull, o, k)
	}
	t.reserve[o][k]++
	return nil
}

// Played records that mover played the action at trace index step; the
// opponent plays the next one. Server steps are 0-based trace indices while
// Step counts from 1.
func (t *TurnState) Played(mover Owner, step int) {
	t.Current = mover.Opponent()
	t.Step = max(step+2, 1)
}

// Undone records that the action at trace index step, played by mover, was
// taken back. mover plays that index again.
func (t *TurnState) Undone(mover Owner, step int) {
	t.Current = mover
	t.Step = max(step+1, 1)
}

// Granted records the player and the trace index the server is asking to
// play.
func (t *TurnState) Granted(player Owner, step int) {
	t.Current = player
	t.Step = max(step+1, 1)
}
