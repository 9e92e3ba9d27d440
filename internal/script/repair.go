package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/analysis"
	"github.com/kasazen/chess-chat/internal/board"
)

// ErrMalformedPayload means the cleaned generator text is not valid JSON.
// Missing or partial fields are never malformed; only unparseable text is.
var ErrMalformedPayload = errors.New("malformed payload")

const (
	defaultExplanation = "Analysis complete."
	syntheticComment   = "Engine recommends this move."
)

// Repairer normalizes untrusted generator output into a schema-valid,
// turn-consistent script. Items it cannot repair are dropped with a logged
// reason; it never guesses which side the generator intended.
type Repairer struct {
	log zerolog.Logger
}

// NewRepairer creates a Repairer.
func NewRepairer(log zerolog.Logger) *Repairer {
	return &Repairer{log: log}
}

// rawScript is the loosest shape the generator may have produced.
type rawScript struct {
	Explanation string        `json:"explanation"`
	Actions     []rawAction   `json:"actions"`
	Sequences   []rawSequence `json:"sequences"`
}

// rawAction accepts both the documented "notation" key and the legacy "lan".
type rawAction struct {
	Type       string `json:"type"`
	Notation   string `json:"notation"`
	LAN        string `json:"lan"`
	Square     string `json:"square"`
	FromSquare string `json:"fromSquare"`
	ToSquare   string `json:"toSquare"`
	Intent     string `json:"intent"`
	Comment    string `json:"comment"`
}

func (a rawAction) notation() string {
	if a.Notation != "" {
		return a.Notation
	}
	return a.LAN
}

type rawSequence struct {
	Label string    `json:"label"`
	Moves flexMoves `json:"moves"`
}

// flexMoves tolerates both ["e4","e5"] and [{"notation":"e4"}, ...].
type flexMoves []string

func (f *flexMoves) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		*f = plain
		return nil
	}
	var objs []struct {
		Notation string `json:"notation"`
		LAN      string `json:"lan"`
		SAN      string `json:"san"`
	}
	if err := json.Unmarshal(data, &objs); err != nil {
		return err
	}
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		switch {
		case o.Notation != "":
			out = append(out, o.Notation)
		case o.SAN != "":
			out = append(out, o.SAN)
		case o.LAN != "":
			out = append(out, o.LAN)
		}
	}
	*f = out
	return nil
}

// Repair turns raw generator text into a RepairedScript governed by pos.
// It fails only with ErrMalformedPayload, and only when the cleaned text
// does not parse as JSON.
func (r *Repairer) Repair(raw string, pos board.Position, best analysis.Result) (RepairedScript, error) {
	clean := stripFences(raw)

	var payload rawScript
	if clean != "" {
		if err := json.Unmarshal([]byte(clean), &payload); err != nil {
			return RepairedScript{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}

	out := RepairedScript{Explanation: payload.Explanation}
	if out.Explanation == "" {
		out.Explanation = defaultExplanation
	}

	for _, seq := range payload.Sequences {
		if len(seq.Moves) == 0 {
			continue
		}
		out.Sequences = append(out.Sequences, DeclaredSequence{
			Label:     seq.Label,
			Notations: seq.Moves,
		})
	}

	out.Actions, out.DroppedItems = r.repairActions(payload.Actions, pos)

	// The generator produced nothing renderable; guarantee at least one
	// directive carrying the analysis best move.
	if len(out.Actions) == 0 && len(out.Sequences) == 0 && out.DroppedItems == 0 {
		out.Actions = []Action{MoveAction{
			Notation: best.BestMoveOr(analysis.FallbackMove),
			Note:     syntheticComment,
		}}
	}

	return out, nil
}

// repairActions normalizes, turn-checks and replay-validates the items.
func (r *Repairer) repairActions(items []rawAction, start board.Position) ([]Action, int) {
	side := start.Turn()
	running := start
	var history []board.Position // positions preceding each applied move

	actions := make([]Action, 0, len(items))
	dropped := 0

	for _, item := range items {
		kind := Kind(item.Type)
		if item.Type == "" {
			// Infer the kind: a notation implies a move, nothing implies a reset.
			if item.notation() != "" {
				kind = KindMove
			} else {
				kind = KindReset
			}
		}
		if !knownKinds[kind] {
			dropped++
			r.log.Warn().Str("type", item.Type).Msg("dropped action: unknown kind")
			continue
		}

		switch kind {
		case KindMove:
			if running.Turn() != side {
				dropped++
				r.log.Warn().Str("notation", item.notation()).Msg("dropped move: wrong side to move")
				continue
			}
			next, err := running.Apply(item.notation())
			if err != nil {
				dropped++
				r.log.Warn().Err(err).Str("notation", item.notation()).Msg("dropped move: invalid against replay position")
				continue
			}
			history = append(history, running)
			running = next
			actions = append(actions, MoveAction{Notation: item.notation(), Note: item.Comment})

		case KindUndo:
			if len(history) > 0 {
				running = history[len(history)-1]
				history = history[:len(history)-1]
			} else {
				running = start
			}
			actions = append(actions, UndoAction{Note: item.Comment})

		case KindReset:
			running = start
			history = nil
			actions = append(actions, ResetAction{Note: item.Comment})

		case KindHighlight:
			actions = append(actions, HighlightAction{Square: item.Square, Intent: item.Intent, Note: item.Comment})

		case KindArrow:
			actions = append(actions, ArrowAction{From: item.FromSquare, To: item.ToSquare, Intent: item.Intent, Note: item.Comment})

		case KindGhostMove:
			actions = append(actions, GhostMoveAction{From: item.FromSquare, To: item.ToSquare, Intent: item.Intent, Note: item.Comment})
		}
	}

	return actions, dropped
}

// stripFences removes a surrounding markdown code fence: take the interior
// of the first fenced segment, then drop a leading format-hint token.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.SplitN(s, "```", 3)
	if len(parts) < 2 {
		return s
	}
	inner := strings.TrimSpace(parts[1])
	if strings.HasPrefix(inner, "json") {
		inner = strings.TrimSpace(strings.TrimPrefix(inner, "json"))
	}
	return inner
}
