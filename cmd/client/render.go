package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/client"
	"github.com/gravitas-games/zombies/internal/hex"
)

// render prints the session as text: status lines, reserves, occupied tiles
// and the current highlights.
func render(w io.Writer, s *client.Session) {
	status, substatus := s.Status()
	fmt.Fprintln(w, status)
	if substatus != "" {
		fmt.Fprintln(w, substatus)
	}

	for _, owner := range []board.Owner{board.Player1, board.Player2} {
		parts := make([]string, 0, len(board.Kinds))
		for _, k := range board.Kinds {
			parts = append(parts, fmt.Sprintf("%s×%d", k, s.Remaining(owner, k)))
		}
		fmt.Fprintf(w, "  %s reserve: %s\n", owner, strings.Join(parts, " "))
	}

	renderMap(w, s.Board())

	for _, t := range s.Board().Tiles() {
		if t.Empty() {
			continue
		}
		pieces := t.Stack().Pieces()
		names := make([]string, len(pieces))
		for i, p := range pieces {
			names[i] = p.String()
		}
		fmt.Fprintf(w, "  (%s): %s\n", t.Coord(), strings.Join(names, " < "))
	}

	kinds, origins := s.Selectable()
	if len(kinds) > 0 || len(origins) > 0 {
		fmt.Fprintf(w, "  selectable: pieces %v tiles %v\n", kinds, origins)
	}
	if targets := s.Targets(); len(targets) > 0 {
		fmt.Fprintf(w, "  targets: %v\n", targets)
	}
	if s.MustSkip() {
		fmt.Fprintln(w, "  type 'skip' to pass")
	}
	if c := s.Controls(); c.PlayPause || c.Next || c.Previous {
		fmt.Fprintf(w, "  controls: play/pause=%t next=%t previous=%t\n", c.PlayPause, c.Next, c.Previous)
	}
}

// renderMap draws the board row by row. Each cell is the initial of the top
// piece and its owner number, ".." for an empty tile and blank off the board.
// Rows are offset by half a cell, as on the pointy-top grid.
func renderMap(w io.Writer, b *board.Board) {
	radius := b.Radius()
	cells := hex.Disk(hex.Origin, radius)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })

	var line strings.Builder
	row := cells[0].R
	flush := func() {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
		line.Reset()
	}
	for i, c := range cells {
		if i > 0 && c.R != row {
			flush()
			row = c.R
		}
		if line.Len() == 0 {
			line.WriteString(strings.Repeat(" ", 4*c.Q+2*c.R+6*radius))
		}
		line.WriteString(cellGlyph(b, c))
		line.WriteString("  ")
	}
	flush()
}

func cellGlyph(b *board.Board, c hex.Axial) string {
	t, ok := b.Tile(c)
	if !ok {
		return "  "
	}
	top, ok := t.Top()
	if !ok {
		return ".."
	}
	return fmt.Sprintf("%c%d", top.Kind.String()[0], int(top.Owner)+1)
}
