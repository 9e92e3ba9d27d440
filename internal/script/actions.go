// Package script defines the coaching action script: the explanation,
// demonstration sequences and board directives a front end renders. It also
// repairs untrusted generator output into a schema-valid, chess-legal script.
package script

import "encoding/json"

// Kind is the closed set of action directives.
type Kind string

const (
	KindMove      Kind = "move"
	KindUndo      Kind = "undo"
	KindReset     Kind = "reset"
	KindHighlight Kind = "highlight"
	KindArrow     Kind = "arrow"
	KindGhostMove Kind = "ghost_move"
)

// knownKinds guards the repairer against generator-invented kinds.
var knownKinds = map[Kind]bool{
	KindMove:      true,
	KindUndo:      true,
	KindReset:     true,
	KindHighlight: true,
	KindArrow:     true,
	KindGhostMove: true,
}

// Action is one visual or interactive directive. Each kind is its own type
// so that illegal field combinations are unrepresentable; the comment is
// always present (possibly empty), never absent.
type Action interface {
	Kind() Kind
	Comment() string
}

// MoveAction plays a move on the board. It is the only kind that mutates
// board state during a replay.
type MoveAction struct {
	Notation string
	Note     string
}

func (a MoveAction) Kind() Kind      { return KindMove }
func (a MoveAction) Comment() string { return a.Note }

// UndoAction steps back to the previous position of the replay.
type UndoAction struct {
	Note string
}

func (a UndoAction) Kind() Kind      { return KindUndo }
func (a UndoAction) Comment() string { return a.Note }

// ResetAction returns to the request's starting position.
type ResetAction struct {
	Note string
}

func (a ResetAction) Kind() Kind      { return KindReset }
func (a ResetAction) Comment() string { return a.Note }

// HighlightAction emphasizes a single square.
type HighlightAction struct {
	Square string
	Intent string
	Note   string
}

func (a HighlightAction) Kind() Kind      { return KindHighlight }
func (a HighlightAction) Comment() string { return a.Note }

// ArrowAction draws an arrow between two squares.
type ArrowAction struct {
	From   string
	To     string
	Intent string
	Note   string
}

func (a ArrowAction) Kind() Kind      { return KindArrow }
func (a ArrowAction) Comment() string { return a.Note }

// GhostMoveAction previews a move without playing it.
type GhostMoveAction struct {
	From   string
	To     string
	Intent string
	Note   string
}

func (a GhostMoveAction) Kind() Kind      { return KindGhostMove }
func (a GhostMoveAction) Comment() string { return a.Note }

// actionJSON is the flat wire shape shared by all kinds.
type actionJSON struct {
	Type       Kind   `json:"type"`
	Notation   string `json:"notation,omitempty"`
	Square     string `json:"square,omitempty"`
	FromSquare string `json:"fromSquare,omitempty"`
	ToSquare   string `json:"toSquare,omitempty"`
	Intent     string `json:"intent,omitempty"`
	Comment    string `json:"comment"`
}

func (a MoveAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: KindMove, Notation: a.Notation, Comment: a.Note})
}

func (a UndoAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: KindUndo, Comment: a.Note})
}

func (a ResetAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: KindReset, Comment: a.Note})
}

func (a HighlightAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: KindHighlight, Square: a.Square, Intent: a.Intent, Comment: a.Note})
}

func (a ArrowAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: KindArrow, FromSquare: a.From, ToSquare: a.To, Intent: a.Intent, Comment: a.Note})
}

func (a GhostMoveAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: KindGhostMove, FromSquare: a.From, ToSquare: a.To, Intent: a.Intent, Comment: a.Note})
}
