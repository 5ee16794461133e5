// Package selection tracks what the local player has picked this turn and
// turns a valid second click into a committed action.
package selection

import (
	"github.com/gravitas-games/zombies/internal/actions"
	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// Mode tags the selection state.
type Mode int

const (
	Idle Mode = iota
	PieceSelected
	TileSelected
)

func (m Mode) String() string {
	switch m {
	case PieceSelected:
		return "PieceSelected"
	case TileSelected:
		return "TileSelected"
	default:
		return "Idle"
	}
}

// State is Idle, PieceSelected(Kind) or TileSelected(Coord).
type State struct {
	Mode  Mode
	Kind  board.PieceKind
	Coord hex.Axial
}

// Machine validates user input against the current catalog. Commits clear
// the catalog, so a second commit needs a fresh grant from the server.
type Machine struct {
	state   State
	catalog *actions.Catalog
}

// New returns an idle machine reading grants from catalog.
func New(catalog *actions.Catalog) *Machine {
	return &Machine{catalog: catalog}
}

// State returns the current selection.
func (m *Machine) State() State { return m.state }

// Targets returns the coordinates the current selection may land on.
func (m *Machine) Targets() []hex.Axial {
	switch m.state.Mode {
	case PieceSelected:
		targets, _ := m.catalog.Placements(m.state.Kind)
		return targets
	case TileSelected:
		targets, _ := m.catalog.Moves(m.state.Coord)
		return targets
	}
	return nil
}

// Reset drops the selection without touching the catalog.
func (m *Machine) Reset() { m.state = State{} }

// SelectPiece handles a click on owner's unplaced piece of kind while
// current is the player to move.
func (m *Machine) SelectPiece(owner board.Owner, kind board.PieceKind, current board.Owner) {
	if owner != current {
		return
	}
	switch m.state.Mode {
	case Idle:
		if _, ok := m.catalog.Placements(kind); ok {
			m.state = State{Mode: PieceSelected, Kind: kind}
		}
	case PieceSelected:
		if m.state.Kind == kind {
			m.state = State{}
		}
	}
}

// SelectTile handles a click on a board tile. It returns the committed
// action when the click completes a granted placement or move.
func (m *Machine) SelectTile(coord hex.Axial, current board.Owner) (actions.Action, bool) {
	switch m.state.Mode {
	case Idle:
		if _, ok := m.catalog.Moves(coord); ok {
			m.state = State{Mode: TileSelected, Coord: coord}
		}
	case PieceSelected:
		if m.catalog.CanPlace(m.state.Kind, coord) {
			return m.commit(actions.Action{Type: actions.Place, Owner: current, Kind: m.state.Kind, To: coord}), true
		}
	case TileSelected:
		if coord == m.state.Coord {
			m.state = State{}
			return actions.Action{}, false
		}
		if m.catalog.CanMove(m.state.Coord, coord) {
			return m.commit(actions.Action{Type: actions.Move, Owner: current, From: m.state.Coord, To: coord}), true
		}
	}
	return actions.Action{}, false
}

// Skip commits a skip when the server granted nothing else.
func (m *Machine) Skip(current board.Owner) (actions.Action, bool) {
	if !m.catalog.MustSkip() {
		return actions.Action{}, false
	}
	return m.commit(actions.Action{Type: actions.Skip, Owner: current}), true
}

func (m *Machine) commit(a actions.Action) actions.Action {
	m.catalog.Clear()
	m.state = State{}
	return a
}
