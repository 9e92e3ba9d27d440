package gen

import "context"

// mockScript is a canned Jobava London walkthrough, used when no model is
// configured (local development and handler tests).
const mockScript = `{
  "explanation": "The Jobava London System starts with d4, Nc3 and Bf4, aiming for quick piece pressure before Black settles.",
  "sequences": [
    {"label": "Jobava London setup", "moves": ["d4", "d5", "Nc3", "Nf6", "Bf4"]}
  ],
  "actions": [
    {"type": "reset", "comment": "Start from the initial position"},
    {"type": "move", "notation": "d2d4", "comment": "Grab the center"},
    {"type": "highlight", "square": "f4", "intent": "plan", "comment": "The bishop belongs here"},
    {"type": "arrow", "fromSquare": "b1", "toSquare": "c3", "intent": "plan", "comment": "Knight before c-pawn"},
    {"type": "ghost_move", "fromSquare": "c8", "toSquare": "f5", "intent": "threat", "comment": "Black often mirrors the bishop"}
  ]
}`

// Mock is a deterministic generator for development and tests.
type Mock struct{}

// NewMock creates the mock generator.
func NewMock() *Mock {
	return &Mock{}
}

// Generate returns the canned script regardless of the prompt.
func (m *Mock) Generate(_ context.Context, _ string) (string, error) {
	return mockScript, nil
}
