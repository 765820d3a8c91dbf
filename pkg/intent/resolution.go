package intent

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Resolution is the outcome of routing one command. Only the fields relevant
// to Action are set.
type Resolution struct {
	Action Action

	// create / find / update description / delete
	Title       string
	Description string
	Query       string
	NoteID      uuid.UUID

	// accumulate
	Line string

	// unsupported
	Command    string
	Suggestion Action
	Phrase     string
	Similarity float64

	// Stage names the routing layer that produced this resolution
	Stage string
}

// UnsupportedMessage renders the reply for an unsupported command
func (r Resolution) UnsupportedMessage() string {
	return fmt.Sprintf(
		"The command '%s' is unsupported. Available commands: %s. Did you mean: %s?",
		r.Command, strings.Join(Tools(), ", "), r.Suggestion,
	)
}
