package analysis

import (
	"context"
	"time"

	"github.com/kasazen/chess-chat/internal/board"
)

// pieceValues in centipawns, keyed by the white FEN letter.
var pieceValues = map[byte]int{'P': 100, 'N': 300, 'B': 300, 'R': 500, 'Q': 900, 'K': 0}

// Material is the deterministic fallback provider. It scores positions by
// raw material balance and picks moves by a fixed priority: any capture,
// then any move landing on a central square, then the first legal move.
type Material struct{}

// NewMaterial creates the heuristic provider.
func NewMaterial() *Material {
	return &Material{}
}

// Evaluate never consults anything outside the position; the budget is
// ignored. It returns ErrNoLegalMoves with the material score when the
// position is terminal.
func (m *Material) Evaluate(_ context.Context, pos board.Position, _ time.Duration) (Result, error) {
	res := Result{CP: moverBalance(pos)}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return res, ErrNoLegalMoves
	}

	pick := moves[0]
	found := false
	for _, mv := range moves {
		if mv.IsCapture() {
			pick = mv
			found = true
			break
		}
	}
	if !found {
		for _, mv := range moves {
			if mv.IsCentral() {
				pick = mv
				break
			}
		}
	}

	res.BestMove = pick.UCI()
	return res, nil
}

// moverBalance sums material white-positive, then flips the sign for Black
// so the score is always from the mover's perspective.
func moverBalance(pos board.Position) int {
	balance := 0
	for sq := 0; sq < 64; sq++ {
		piece := pos.PieceAt(uint8(sq))
		if piece == 0 {
			continue
		}
		if piece >= 'a' && piece <= 'z' {
			balance -= pieceValues[piece-32]
		} else {
			balance += pieceValues[piece]
		}
	}
	if pos.Turn() == board.Black {
		balance = -balance
	}
	return balance
}
