// Package board wraps the chess rules engine with a total, immutable API.
// Every call either succeeds or fails with a specific sentinel error; a move
// either fully produces a new Position or leaves the old one untouched.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/freeeve/pgn/v3"
)

var (
	// ErrInvalidPosition means the position text could not be parsed.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrUnparseableNotation means the move text is not SAN or long algebraic.
	ErrUnparseableNotation = errors.New("unparseable notation")
	// ErrIllegalMove means the move parsed but is not legal here.
	ErrIllegalMove = errors.New("illegal move")
)

// Side is the color to move.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Position is an immutable chess position. Apply returns a new Position and
// never mutates the receiver, so values can be shared freely across a replay.
type Position struct {
	gs *pgn.GameState
}

// Start returns the standard initial position.
func Start() Position {
	return Position{gs: pgn.NewStartingPosition()}
}

// Load parses a FEN string into a Position.
func Load(fen string) (Position, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" {
		return Position{}, fmt.Errorf("%w: empty FEN", ErrInvalidPosition)
	}
	gs, err := pgn.NewGame(fen)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return Position{gs: gs}, nil
}

// FEN renders the canonical single-line encoding of the position.
func (p Position) FEN() string {
	return p.gs.ToFEN()
}

// EPD is the FEN without the move counters, used as a stable lookup key.
func (p Position) EPD() string {
	fields := strings.Fields(p.gs.ToFEN())
	if len(fields) < 4 {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:4], " ")
}

// Turn reports the side to move.
func (p Position) Turn() Side {
	fields := strings.Fields(p.gs.ToFEN())
	if len(fields) >= 2 && fields[1] == "b" {
		return Black
	}
	return White
}

// clone copies the underlying game state so a mutation cannot leak out.
func (p Position) clone() *pgn.GameState {
	return p.gs.Pack().Unpack()
}

// Apply plays a move, given in SAN ("Nf3") or long algebraic ("g1f3",
// "e7e8q"), and returns the resulting Position.
func (p Position) Apply(notation string) (Position, error) {
	mv, err := p.parse(notation)
	if err != nil {
		return Position{}, err
	}
	next := p.clone()
	if next == nil {
		return Position{}, fmt.Errorf("%w: clone failed", ErrIllegalMove)
	}
	if err := pgn.ApplyMove(next, mv); err != nil {
		return Position{}, fmt.Errorf("%w: %q: %v", ErrIllegalMove, notation, err)
	}
	return Position{gs: next}, nil
}

// LegalMoves returns all legal moves in generation order.
func (p Position) LegalMoves() []Move {
	mvs := pgn.GenerateLegalMoves(p.gs)
	out := make([]Move, 0, len(mvs))
	for _, mv := range mvs {
		out = append(out, Move{mv: mv, pos: p})
	}
	return out
}

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool {
	return p.gs.IsInCheck()
}

// PieceAt returns the FEN piece letter on a 0-63 square (A1=0), 0 if empty.
func (p Position) PieceAt(sq uint8) byte {
	return p.gs.PieceAt(pgn.Square(sq))
}

// parse resolves a notation string against this position.
func (p Position) parse(notation string) (pgn.Mv, error) {
	notation = strings.TrimSpace(notation)
	if notation == "" {
		return pgn.Mv{}, fmt.Errorf("%w: empty notation", ErrUnparseableNotation)
	}

	if isLongNotation(notation) {
		mv, err := pgn.ParseUCI(notation)
		if err != nil {
			return pgn.Mv{}, fmt.Errorf("%w: %q: %v", ErrIllegalMove, notation, err)
		}
		// Return the generated move so the flags (en passant, castle) are set.
		for _, legal := range pgn.GenerateLegalMoves(p.gs) {
			if legal.From == mv.From && legal.To == mv.To && legal.Promo == mv.Promo {
				return legal, nil
			}
		}
		return pgn.Mv{}, fmt.Errorf("%w: %q", ErrIllegalMove, notation)
	}

	san := strings.TrimSuffix(strings.TrimSuffix(notation, "#"), "+")
	mv, err := pgn.ParseSAN(p.gs, san)
	if err != nil {
		// ParseSAN rejects both garbage and legal-looking moves that are
		// illegal here; garbage is anything that doesn't look like SAN.
		if !looksLikeSAN(san) {
			return pgn.Mv{}, fmt.Errorf("%w: %q", ErrUnparseableNotation, notation)
		}
		return pgn.Mv{}, fmt.Errorf("%w: %q: %v", ErrIllegalMove, notation, err)
	}
	return mv, nil
}

// isLongNotation is a shape check for long algebraic ("e2e4", "e7e8q"),
// used only to route the text to the right parser.
func isLongNotation(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if s[0] < 'a' || s[0] > 'h' || s[2] < 'a' || s[2] > 'h' {
		return false
	}
	if s[1] < '1' || s[1] > '8' || s[3] < '1' || s[3] > '8' {
		return false
	}
	if len(s) == 5 && !strings.ContainsRune("qrbnQRBN", rune(s[4])) {
		return false
	}
	return true
}

var sanPieces = "KQRBN"

// looksLikeSAN is a loose shape check used only to pick the right error kind.
func looksLikeSAN(s string) bool {
	if s == "O-O" || s == "O-O-O" || s == "0-0" || s == "0-0-0" {
		return true
	}
	if len(s) < 2 || len(s) > 7 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
		case c >= '1' && c <= '8':
		case strings.ContainsRune(sanPieces, c):
		case c == 'x' || c == '=':
		default:
			return false
		}
	}
	return true
}
