// Package input resolves clicks and console commands into targets and
// dispatches them to the session.
package input

import (
	"fmt"

	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// Region is the part of the window an input lands in.
type Region int

const (
	RegionBoard Region = iota
	RegionReserve
	RegionControls
)

func (r Region) String() string {
	switch r {
	case RegionBoard:
		return "board"
	case RegionReserve:
		return "reserve"
	case RegionControls:
		return "controls"
	default:
		return "unknown"
	}
}

// Control is one of the buttons outside the board.
type Control int

const (
	ControlSkip Control = iota
	ControlPlayPause
	ControlNext
	ControlPrevious
)

// Target is a resolved input: a board tile, an unplaced piece or a button.
type Target struct {
	Region  Region
	Coord   hex.Axial       // RegionBoard
	Owner   board.Owner     // RegionReserve
	Kind    board.PieceKind // RegionReserve
	Control Control         // RegionControls
}

func (t Target) String() string {
	switch t.Region {
	case RegionBoard:
		return fmt.Sprintf("tile %s", t.Coord)
	case RegionReserve:
		return fmt.Sprintf("%s %s", t.Owner, t.Kind)
	default:
		return fmt.Sprintf("control %d", t.Control)
	}
}

// Handler receives dispatched targets. *client.Session implements it.
type Handler interface {
	ClickTile(coord hex.Axial) error
	SelectPiece(owner board.Owner, kind board.PieceKind)
	Skip() error
	TogglePlayPause() error
	Next() error
	Previous() error
}

// TileLocator finds the board tile under a pixel.
type TileLocator interface {
	TileAt(x, y float64) (*board.Tile, bool)
}

// View describes the window: the board in the middle and one reserve panel
// of HudWidth on each side. Each panel has one row per piece kind and a
// bottom row of buttons.
type View struct {
	Width    float64
	Height   float64
	HudWidth float64
}

const panelRows = len(board.Kinds) + 1

// Router owns the dispatch table.
type Router struct {
	handler Handler
	tiles   TileLocator
	view    View
	routes  map[Region]func(Target) error
}

// NewRouter creates a router sending targets to h.
func NewRouter(h Handler, tiles TileLocator, view View) *Router {
	r := &Router{handler: h, tiles: tiles, view: view}
	r.routes = map[Region]func(Target) error{
		RegionBoard: func(t Target) error {
			return h.ClickTile(t.Coord)
		},
		RegionReserve: func(t Target) error {
			h.SelectPiece(t.Owner, t.Kind)
			return nil
		},
		RegionControls: r.control,
	}
	return r
}

func (r *Router) control(t Target) error {
	switch t.Control {
	case ControlSkip:
		return r.handler.Skip()
	case ControlPlayPause:
		return r.handler.TogglePlayPause()
	case ControlNext:
		return r.handler.Next()
	case ControlPrevious:
		return r.handler.Previous()
	}
	return nil
}

// Dispatch sends t to its handler.
func (r *Router) Dispatch(t Target) error {
	route, ok := r.routes[t.Region]
	if !ok {
		return nil
	}
	return route(t)
}

// ClickAt resolves a click at pixel (x, y) and dispatches it. Clicks outside
// any target are ignored.
func (r *Router) ClickAt(x, y float64) error {
	t, ok := r.Resolve(x, y)
	if !ok {
		return nil
	}
	return r.Dispatch(t)
}

// Resolve maps a pixel to a target.
func (r *Router) Resolve(x, y float64) (Target, bool) {
	v := r.view
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return Target{}, false
	}

	switch {
	case x < v.HudWidth:
		return r.panel(board.Player1, x, y)
	case x >= v.Width-v.HudWidth:
		return r.panel(board.Player2, x-(v.Width-v.HudWidth), y)
	}

	tile, ok := r.tiles.TileAt(x, y)
	if !ok {
		return Target{}, false
	}
	return Target{Region: RegionBoard, Coord: tile.Coord()}, true
}

// panel resolves a click at panel-relative (x, y) in owner's side panel.
func (r *Router) panel(owner board.Owner, x, y float64) (Target, bool) {
	row := int(y / (r.view.Height / float64(panelRows)))
	if row < len(board.Kinds) {
		return Target{Region: RegionReserve, Owner: owner, Kind: board.Kinds[row]}, true
	}

	if owner == board.Player1 {
		return Target{Region: RegionControls, Control: ControlSkip}, true
	}
	buttons := [...]Control{ControlPrevious, ControlPlayPause, ControlNext}
	col := int(x / (r.view.HudWidth / float64(len(buttons))))
	if col >= len(buttons) {
		col = len(buttons) - 1
	}
	return Target{Region: RegionControls, Control: buttons[col]}, true
}
