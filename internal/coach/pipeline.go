// Package coach orchestrates the action-script synthesis pipeline: load the
// position, evaluate it, ask the generator for a candidate script, repair it
// and expand its sequences. Apart from an unloadable starting position, the
// pipeline always answers with a renderable ActionScript.
package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/analysis"
	"github.com/kasazen/chess-chat/internal/board"
	"github.com/kasazen/chess-chat/internal/eco"
	"github.com/kasazen/chess-chat/internal/gen"
	"github.com/kasazen/chess-chat/internal/script"
)

const fallbackExplanation = "I couldn't put together a full walkthrough for this one, but here is the move I'd look at."
const fallbackComment = "Unable to generate full analysis. Try again."

// Generator obtains raw candidate script text for a prompt. Implementations
// are expected to block; the pipeline bounds them with the request context.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config wires the pipeline's collaborators.
type Config struct {
	Logger         zerolog.Logger
	Analyzer       analysis.Provider
	Generator      Generator
	Openings       *eco.Database // optional; labels unlabeled sequences
	AnalysisBudget time.Duration // per-request engine budget
}

// Request is one coaching question about a position.
type Request struct {
	FEN      string
	Question string
	History  []string
}

// Pipeline is safe for concurrent use; every request gets its own state.
type Pipeline struct {
	cfg      Config
	log      zerolog.Logger
	repairer *script.Repairer
	expander *script.Expander
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.AnalysisBudget <= 0 {
		cfg.AnalysisBudget = 100 * time.Millisecond
	}
	return &Pipeline{
		cfg:      cfg,
		log:      cfg.Logger,
		repairer: script.NewRepairer(cfg.Logger),
		expander: script.NewExpander(cfg.Logger),
	}
}

// Ask runs the pipeline for one request. The only error it returns wraps
// board.ErrInvalidPosition; every other failure is mapped to a concrete
// fallback value so the caller always has a renderable script.
func (p *Pipeline) Ask(ctx context.Context, req Request) (script.ActionScript, error) {
	pos, err := board.Load(req.FEN)
	if err != nil {
		return script.ActionScript{}, fmt.Errorf("load position: %w", err)
	}

	best := p.analyze(ctx, pos)

	raw := p.generate(ctx, req, pos, best)

	repaired, err := p.repairer.Repair(raw, pos, best)
	if err != nil {
		// Unparseable generator output; answer with the analysis best move.
		p.log.Warn().Err(err).Msg("repair failed, returning fallback script")
		return p.fallbackScript(best), nil
	}

	out := script.ActionScript{
		Explanation:  repaired.Explanation,
		Actions:      repaired.Actions,
		Sequences:    make([]script.Sequence, 0, len(repaired.Sequences)),
		DroppedItems: repaired.DroppedItems,
	}

	for _, decl := range repaired.Sequences {
		seq := script.Sequence{
			Label: decl.Label,
			Moves: p.expander.Expand(pos, decl.Notations),
		}
		if seq.Label == "" {
			seq.Label = p.labelSequence(seq.Moves)
		}
		out.Sequences = append(out.Sequences, seq)
	}

	return out, nil
}

// analyze runs the provider chain. It never fails the request: a terminal
// position yields a result with no best move, and downstream consumers use
// the literal fallback notation.
func (p *Pipeline) analyze(ctx context.Context, pos board.Position) analysis.Result {
	res, err := p.cfg.Analyzer.Evaluate(ctx, pos, p.cfg.AnalysisBudget)
	if err != nil {
		p.log.Warn().Err(err).Str("fen", pos.FEN()).Msg("analysis degraded")
	}
	return res
}

// generate asks the collaborator for raw text; a failure is treated as if
// generation returned empty text, deferring to the repairer's default-fill.
func (p *Pipeline) generate(ctx context.Context, req Request, pos board.Position, best analysis.Result) string {
	prompt := gen.BuildPrompt(gen.PromptData{
		FEN:      pos.FEN(),
		History:  req.History,
		Question: req.Question,
		BestMove: best.BestMoveOr(analysis.FallbackMove),
		Eval:     formatEval(best),
	})

	raw, err := p.cfg.Generator.Generate(ctx, prompt)
	if err != nil {
		p.log.Warn().Err(err).Msg("generation failed, proceeding with empty script")
		return ""
	}
	return raw
}

// fallbackScript is the minimal synthetic answer used when repair fails.
func (p *Pipeline) fallbackScript(best analysis.Result) script.ActionScript {
	return script.ActionScript{
		Explanation: fallbackExplanation,
		Sequences:   []script.Sequence{},
		Actions: []script.Action{script.MoveAction{
			Notation: best.BestMoveOr(analysis.FallbackMove),
			Note:     fallbackComment,
		}},
	}
}

// labelSequence names an unlabeled sequence after the opening its final
// position reaches, when an opening database is loaded.
func (p *Pipeline) labelSequence(moves []script.SequenceMove) string {
	if p.cfg.Openings == nil || len(moves) == 0 {
		return ""
	}
	// Walk backwards so a line that leaves book still gets the deepest name.
	for i := len(moves) - 1; i >= 0; i-- {
		if o := p.cfg.Openings.LookupFEN(moves[i].ResultingPosition); o != nil {
			return o.Name
		}
	}
	return ""
}

// formatEval renders the evaluation the way players read it.
func formatEval(r analysis.Result) string {
	if r.HasMate {
		return fmt.Sprintf("mate %d", r.Mate)
	}
	return fmt.Sprintf("%+.2f", float64(r.CP)/100)
}
