package script

import (
	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/board"
)

// Expander walks declared move lists into fully-resolved positions.
type Expander struct {
	log zerolog.Logger
}

// NewExpander creates an Expander.
func NewExpander(log zerolog.Logger) *Expander {
	return &Expander{log: log}
}

// Expand applies each notation to a running position starting from start.
// An unparseable or illegal entry is skipped without advancing the running
// position, so one bad move does not lose the rest of the demonstration.
// The result may therefore be shorter than the input, but every retained
// step follows legally from its predecessor.
func (e *Expander) Expand(start board.Position, notations []string) []SequenceMove {
	running := start
	moves := make([]SequenceMove, 0, len(notations))

	for _, notation := range notations {
		next, err := running.Apply(notation)
		if err != nil {
			e.log.Debug().Err(err).Str("notation", notation).Msg("skipped sequence entry")
			continue
		}
		moves = append(moves, SequenceMove{
			Notation:          notation,
			ResultingPosition: next.FEN(),
		})
		running = next
	}

	return moves
}
