package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/board"
)

// EngineConfig configures the UCI engine provider.
type EngineConfig struct {
	Path    string // path to the engine executable
	HashMB  int    // engine hash table size
	Threads int    // engine threads
	Logger  zerolog.Logger
}

// Engine evaluates positions with an external UCI engine process. The
// process is spawned per Evaluate call and always terminated before the call
// returns, so a request can never leak an engine under concurrent load.
type Engine struct {
	cfg EngineConfig
	log zerolog.Logger
}

// NewEngine creates the engine-backed provider. The executable is not
// touched until the first Evaluate call.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.HashMB == 0 {
		cfg.HashMB = 64
	}
	if cfg.Threads == 0 {
		cfg.Threads = 1
	}
	return &Engine{cfg: cfg, log: cfg.Logger}
}

// Evaluate runs the engine on the position for the given budget.
// Any process-level failure is reported as ErrUnavailable so the caller can
// fall through to the heuristic variant.
func (e *Engine) Evaluate(ctx context.Context, pos board.Position, budget time.Duration) (Result, error) {
	if e.cfg.Path == "" {
		return Result{}, fmt.Errorf("%w: no engine path configured", ErrUnavailable)
	}
	if budget <= 0 {
		budget = 100 * time.Millisecond
	}

	engine, err := uci.NewEngine(e.cfg.Path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: start engine: %v", ErrUnavailable, err)
	}
	defer engine.Close()

	opts := uci.Options{
		Hash:    e.cfg.HashMB,
		Threads: e.cfg.Threads,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := engine.SetOptions(opts); err != nil {
		return Result{}, fmt.Errorf("%w: set options: %v", ErrUnavailable, err)
	}

	fen := pos.FEN()
	if err := engine.SetFEN(fen); err != nil {
		return Result{}, fmt.Errorf("%w: set FEN: %v", ErrUnavailable, err)
	}

	results, err := engine.Go(0, "", budget.Milliseconds(), uci.HighestDepthOnly)
	if err != nil {
		return Result{}, fmt.Errorf("%w: go: %v", ErrUnavailable, err)
	}
	if results == nil || len(results.Results) == 0 {
		return Result{}, fmt.Errorf("%w: no results from engine", ErrUnavailable)
	}

	best := results.Results[0]
	for _, r := range results.Results {
		if r.Depth > best.Depth {
			best = r
		}
	}

	res := Result{BestMove: results.BestMove}
	if res.BestMove == "(none)" {
		res.BestMove = ""
	}
	// Engine scores are already from the side to move's perspective.
	if best.Mate {
		res.Mate = best.Score
		res.HasMate = true
	} else {
		res.CP = best.Score
	}

	if res.BestMove == "" {
		if len(pos.LegalMoves()) == 0 {
			return res, ErrNoLegalMoves
		}
		return Result{}, fmt.Errorf("%w: engine returned no best move", ErrUnavailable)
	}

	e.log.Debug().
		Str("fen", fen).
		Str("best", res.BestMove).
		Int("cp", res.CP).
		Int("depth", best.Depth).
		Msg("engine evaluation")

	return res, nil
}
