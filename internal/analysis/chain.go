package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/board"
)

// Chain tries providers in order, falling through on any failure. Engine
// unavailability is treated as a standing condition for the request, so a
// failed variant is never retried within the same call.
type Chain struct {
	providers []Provider
	log       zerolog.Logger
}

// NewChain builds a fallback chain from the given providers.
func NewChain(log zerolog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, log: log}
}

// Evaluate returns the first successful result. ErrNoLegalMoves passes
// through immediately, carrying the material score and no best move, since
// no later variant can invent a move in a terminal position.
func (c *Chain) Evaluate(ctx context.Context, pos board.Position, budget time.Duration) (Result, error) {
	var lastErr error
	for i, p := range c.providers {
		res, err := p.Evaluate(ctx, pos, budget)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrNoLegalMoves) {
			return res, err
		}
		lastErr = err
		c.log.Warn().Err(err).Int("variant", i).Msg("analysis provider failed, falling through")
	}
	if lastErr == nil {
		lastErr = ErrUnavailable
	}
	return Result{}, lastErr
}
