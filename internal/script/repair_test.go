package script_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/analysis"
	"github.com/kasazen/chess-chat/internal/board"
	"github.com/kasazen/chess-chat/internal/script"
)

var best = analysis.Result{BestMove: "g1f3", CP: 35}

func repair(t *testing.T, raw string) script.RepairedScript {
	t.Helper()
	out, err := script.NewRepairer(zerolog.Nop()).Repair(raw, board.Start(), best)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	return out
}

func TestRepairEmptyText(t *testing.T) {
	out := repair(t, "")

	if out.Explanation == "" {
		t.Error("explanation must be default-filled")
	}
	if len(out.Actions) != 1 {
		t.Fatalf("got %d actions, want 1 synthetic move", len(out.Actions))
	}
	mv, ok := out.Actions[0].(script.MoveAction)
	if !ok {
		t.Fatalf("action is %T, want MoveAction", out.Actions[0])
	}
	if mv.Notation != best.BestMove {
		t.Errorf("notation = %q, want best move %q", mv.Notation, best.BestMove)
	}
	if mv.Comment() == "" {
		t.Error("synthetic action must carry an explanatory comment")
	}
}

func TestRepairMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain text", "I think e4 is best here."},
		{"broken json", `{"explanation": "hi", "actions": [`},
		// Parses as JSON but not into the schema's types; treated the same
		// as unparseable text, and the orchestrator turns it into the
		// fallback script.
		{"type mismatch", `{"explanation": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.NewRepairer(zerolog.Nop()).Repair(tt.raw, board.Start(), best)
			if !errors.Is(err, script.ErrMalformedPayload) {
				t.Errorf("error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestRepairStripsFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare fence", "```\n{\"explanation\":\"ok\"}\n```"},
		{"json hint", "```json\n{\"explanation\":\"ok\"}\n```"},
		{"no closing fence", "```json\n{\"explanation\":\"ok\"}"},
		{"trailing chatter", "```json\n{\"explanation\":\"ok\"}\n```\nHope that helps!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := repair(t, tt.raw)
			if out.Explanation != "ok" {
				t.Errorf("explanation = %q, want ok", out.Explanation)
			}
		})
	}
}

func TestRepairTurnOwnership(t *testing.T) {
	// Black's move offered in a white-to-move position is dropped, never
	// corrected.
	out := repair(t, `{"actions":[
		{"type":"move","notation":"e7e5","comment":"black move"},
		{"type":"move","notation":"e2e4","comment":"white move"}
	]}`)

	if out.DroppedItems != 1 {
		t.Errorf("dropped = %d, want 1", out.DroppedItems)
	}
	if len(out.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(out.Actions))
	}
	if mv := out.Actions[0].(script.MoveAction); mv.Notation != "e2e4" {
		t.Errorf("kept %q, want e2e4", mv.Notation)
	}
}

func TestRepairConsecutiveMoves(t *testing.T) {
	// After e2e4 the replay position belongs to Black, so a second white
	// move is fine only after an undo or reset.
	out := repair(t, `{"actions":[
		{"type":"move","notation":"e2e4","comment":""},
		{"type":"move","notation":"e7e5","comment":"now governed by black"},
		{"type":"undo","comment":""},
		{"type":"move","notation":"d2d4","comment":""}
	]}`)

	if out.DroppedItems != 1 {
		t.Errorf("dropped = %d, want 1 (the black reply)", out.DroppedItems)
	}
	kinds := make([]script.Kind, 0, len(out.Actions))
	for _, a := range out.Actions {
		kinds = append(kinds, a.Kind())
	}
	want := []script.Kind{script.KindMove, script.KindUndo, script.KindMove}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestRepairResetReplay(t *testing.T) {
	out := repair(t, `{"actions":[
		{"type":"move","notation":"e2e4","comment":""},
		{"type":"reset","comment":""},
		{"type":"move","notation":"d2d4","comment":""}
	]}`)

	if out.DroppedItems != 0 {
		t.Errorf("dropped = %d, want 0", out.DroppedItems)
	}
	if len(out.Actions) != 3 {
		t.Errorf("got %d actions, want 3", len(out.Actions))
	}
}

func TestRepairInfersKind(t *testing.T) {
	// The original generator schema used "lan" and sometimes omitted the
	// type; a notation implies a move, nothing implies a reset.
	out := repair(t, `{"actions":[
		{"lan":"e2e4","comment":"typeless move"},
		{"comment":"typeless nothing"}
	]}`)

	if len(out.Actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(out.Actions))
	}
	if _, ok := out.Actions[0].(script.MoveAction); !ok {
		t.Errorf("first action is %T, want MoveAction", out.Actions[0])
	}
	if _, ok := out.Actions[1].(script.ResetAction); !ok {
		t.Errorf("second action is %T, want ResetAction", out.Actions[1])
	}
}

func TestRepairRejectsUnknownKind(t *testing.T) {
	out := repair(t, `{"actions":[
		{"type":"explode","comment":"no such directive"},
		{"type":"highlight","square":"e4","comment":""}
	]}`)

	if out.DroppedItems != 1 {
		t.Errorf("dropped = %d, want 1", out.DroppedItems)
	}
	if len(out.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(out.Actions))
	}
	if _, ok := out.Actions[0].(script.HighlightAction); !ok {
		t.Errorf("action is %T, want HighlightAction", out.Actions[0])
	}
}

func TestRepairIllegalMoveDropped(t *testing.T) {
	out := repair(t, `{"actions":[
		{"type":"move","notation":"e2e5","comment":"pawn can't jump there"},
		{"type":"move","notation":"Zz9","comment":"not notation at all"},
		{"type":"move","notation":"Nf3","comment":"fine"}
	]}`)

	if out.DroppedItems != 2 {
		t.Errorf("dropped = %d, want 2", out.DroppedItems)
	}
	if len(out.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(out.Actions))
	}
}

func TestRepairDeclaredSequences(t *testing.T) {
	out := repair(t, `{"sequences":[
		{"label":"Main line","moves":["e4","e5","Nf3"]},
		{"label":"Object form","moves":[{"notation":"d4"},{"san":"d5"}]},
		{"label":"Empty","moves":[]}
	]}`)

	if len(out.Sequences) != 2 {
		t.Fatalf("got %d sequences, want 2 (empty one skipped)", len(out.Sequences))
	}
	if got := out.Sequences[0].Notations; len(got) != 3 || got[0] != "e4" {
		t.Errorf("first sequence notations = %v", got)
	}
	if got := out.Sequences[1].Notations; len(got) != 2 || got[1] != "d5" {
		t.Errorf("object-form notations = %v", got)
	}
	// Sequences count as renderable content: no synthetic action.
	if len(out.Actions) != 0 {
		t.Errorf("got %d actions, want 0", len(out.Actions))
	}
}

func TestRepairGhostAndArrowNeverMutate(t *testing.T) {
	// Visual directives between moves must not advance the replay: the
	// second white move is still rejected for turn ownership.
	out := repair(t, `{"actions":[
		{"type":"move","notation":"e2e4","comment":""},
		{"type":"arrow","fromSquare":"g8","toSquare":"f6","intent":"plan","comment":""},
		{"type":"ghost_move","fromSquare":"d2","toSquare":"d4","comment":""},
		{"type":"move","notation":"d2d4","comment":"still black's turn in the replay"}
	]}`)

	if out.DroppedItems != 1 {
		t.Errorf("dropped = %d, want 1", out.DroppedItems)
	}
	if len(out.Actions) != 3 {
		t.Errorf("got %d actions, want 3", len(out.Actions))
	}
}
