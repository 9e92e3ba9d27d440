// Package gen produces the raw action-script candidate text: it builds the
// coaching prompt and sends it to a language model. The output is untrusted
// and always goes through the script repairer.
package gen

import (
	"fmt"
	"strings"
)

// PromptData carries everything the prompt needs about the request.
type PromptData struct {
	FEN      string
	History  []string // moves played so far, SAN
	Question string
	BestMove string // engine recommendation, long algebraic
	Eval     string // formatted evaluation, e.g. "+0.35" or "mate 3"
}

const coachPrompt = `You are a GM Coach. If asked to 'go back' or 'walk through,' generate a sequential list of 'undo' and 'move' actions. Refer to the provided 'history' array to ensure perfect context.

Position: %s
History (%d moves): %s
Engine: %s (eval %s)
Question: %s

CRITICAL: Return ONLY valid JSON. Every move or undo mentioned must exist in the actions array.

SCHEMA:
{
  "explanation": "Natural language response",
  "sequences": [
    {"label": "Main line", "moves": ["e4", "e5", "Nf3"]}
  ],
  "actions": [
    {"type": "move", "notation": "e2e4", "comment": "Opening with e4"},
    {"type": "undo", "comment": "Going back one move"},
    {"type": "reset", "comment": "Starting fresh"},
    {"type": "highlight", "square": "e4", "intent": "good", "comment": "Key square"},
    {"type": "arrow", "fromSquare": "g1", "toSquare": "f3", "intent": "plan", "comment": "Develop the knight"},
    {"type": "ghost_move", "fromSquare": "d1", "toSquare": "h5", "intent": "threat", "comment": "The queen could come out"}
  ]
}

Action Types:
- "move": Execute move (MUST include "notation", SAN or long algebraic: e2e4, g1f3, e7e8q for promotion)
- "undo": Step back one move (for "go back X", use X consecutive undo actions)
- "reset": Return to starting position
- "highlight"/"arrow"/"ghost_move": Visual emphasis only, never changes the board

Rules:
1. For "go back X moves": Generate X undo actions
2. For "what if X instead of Y": Undo to that point, play X, show analysis, then undo X and replay Y
3. For multi-move demonstrations: use a sequence with SAN moves instead of consecutive move actions
4. Each action MUST have "type" and "comment"
5. Move actions MUST only move pieces belonging to the side to move in the given position
6. Use move history to calculate exact undo counts
7. NO text outside JSON structure`

// BuildPrompt renders the coaching prompt for one request.
func BuildPrompt(d PromptData) string {
	history := "No moves yet"
	if len(d.History) > 0 {
		history = strings.Join(d.History, " ")
	}
	return fmt.Sprintf(coachPrompt, d.FEN, len(d.History), history, d.BestMove, d.Eval, d.Question)
}
