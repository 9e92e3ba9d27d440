// Package analysis produces a best move and evaluation for a position,
// either from an external UCI engine or from a self-contained heuristic.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/kasazen/chess-chat/internal/board"
)

var (
	// ErrUnavailable means a provider could not produce a result and the
	// caller should fall through to the next variant.
	ErrUnavailable = errors.New("analysis provider unavailable")
	// ErrNoLegalMoves means the position is terminal (mate or stalemate).
	ErrNoLegalMoves = errors.New("no legal moves")
)

// FallbackMove is the literal placeholder notation used downstream when no
// provider could name a best move.
const FallbackMove = "e2e4"

// Result is a per-request evaluation. Scores are from the mover's
// perspective. BestMove is long algebraic notation, empty when the position
// has no legal moves.
type Result struct {
	BestMove string
	CP       int
	Mate     int
	HasMate  bool
}

// BestMoveOr returns the best move, or the given fallback when none exists.
func (r Result) BestMoveOr(fallback string) string {
	if r.BestMove == "" {
		return fallback
	}
	return r.BestMove
}

// Provider evaluates a position within a time budget.
type Provider interface {
	Evaluate(ctx context.Context, pos board.Position, budget time.Duration) (Result, error)
}
