package script

// SequenceMove is one step of a demonstration: the notation that was played
// and the full position it produced.
type SequenceMove struct {
	Notation          string `json:"notation"`
	ResultingPosition string `json:"resultingPosition"`
}

// Sequence is a labeled, ordered demonstration of moves with precomputed
// resulting positions. Every retained step is legal against its predecessor.
type Sequence struct {
	Label string         `json:"label"`
	Moves []SequenceMove `json:"moves"`
}

// ActionScript is the pipeline's sole output. It is constructible even in
// total failure: empty sequences, a single synthetic action and a failure
// explanation. DroppedItems counts generator items rejected during repair.
type ActionScript struct {
	Explanation  string     `json:"explanation"`
	Sequences    []Sequence `json:"sequences"`
	Actions      []Action   `json:"actions"`
	DroppedItems int        `json:"droppedItems,omitempty"`
}

// DeclaredSequence is a sequence as the generator declared it: a label and
// raw notations, not yet expanded into positions.
type DeclaredSequence struct {
	Label     string
	Notations []string
}

// RepairedScript is the repairer's output: schema-valid actions plus the
// declared sequences still awaiting expansion.
type RepairedScript struct {
	Explanation  string
	Actions      []Action
	Sequences    []DeclaredSequence
	DroppedItems int
}
