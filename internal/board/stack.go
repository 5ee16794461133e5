package board

// Stack is the ordered pile of pieces on one tile, bottom first. Only the
// top piece is active. A stack with no pieces is an empty tile.
type Stack struct {
	pieces []Piece
}

// Push puts p on top.
func (s *Stack) Push(p Piece) {
	s.pieces = append(s.pieces, p)
}

// Pop removes and returns the top piece.
func (s *Stack) Pop() (Piece, bool) {
	n := len(s.pieces)
	if n == 0 {
		return Piece{}, false
	}
	p := s.pieces[n-1]
	s.pieces = s.pieces[:n-1]
	return p, true
}

// Top returns the active piece.
func (s Stack) Top() (Piece, bool) {
	if len(s.pieces) == 0 {
		return Piece{}, false
	}
	return s.pieces[len(s.pieces)-1], true
}

// Len returns the number of pieces.
func (s Stack) Len() int { return len(s.pieces) }

// Empty reports whether no piece is on the tile.
func (s Stack) Empty() bool { return len(s.pieces) == 0 }

// Stacked reports whether a piece sits on top of another one.
func (s Stack) Stacked() bool { return len(s.pieces) > 1 }

// Pieces returns a copy of the pieces, bottom first.
func (s Stack) Pieces() []Piece {
	out := make([]Piece, len(s.pieces))
	copy(out, s.pieces)
	return out
}
