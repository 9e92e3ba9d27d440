package board

import "github.com/freeeve/pgn/v3"

// Central squares in 0-63 indexing (A1=0): d4, e4, d5, e5.
var centralSquares = map[int]bool{27: true, 28: true, 35: true, 36: true}

// Move is a legal move bound to the Position it was generated against.
type Move struct {
	mv  pgn.Mv
	pos Position
}

// UCI renders the move in long algebraic notation (e.g. "e2e4", "e7e8q").
func (m Move) UCI() string {
	return m.mv.String()
}

// IsCapture reports whether the move takes a piece (incl. en passant).
func (m Move) IsCapture() bool {
	if m.pos.gs.PieceAt(m.mv.To) != 0 {
		return true
	}
	piece := m.pos.gs.PieceAt(m.mv.From)
	isPawn := piece == 'P' || piece == 'p'
	return isPawn && m.mv.Flags&2 != 0 // en passant
}

// IsCentral reports whether the move lands on d4, e4, d5 or e5.
func (m Move) IsCentral() bool {
	return centralSquares[int(m.mv.To)]
}
