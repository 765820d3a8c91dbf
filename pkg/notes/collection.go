package notes

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yorikya/note-speaker/pkg/lexical"
)

// Collection is an ordered, session-scoped note list. Iteration order is
// insertion order. It is not safe for concurrent use; the session owning it
// serializes access.
type Collection struct {
	notes []*Note
	now   func() time.Time
}

func NewCollection() *Collection {
	return &Collection{now: time.Now}
}

// Add appends a note and returns it
func (c *Collection) Add(title, description string) *Note {
	ts := c.now()
	n := &Note{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	c.notes = append(c.notes, n)
	return n
}

// Get returns the note with the given ID
func (c *Collection) Get(id uuid.UUID) (*Note, bool) {
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// FirstByTitle returns the first note whose title equals title exactly
func (c *Collection) FirstByTitle(title string) (*Note, bool) {
	for _, n := range c.notes {
		if n.Title == title {
			return n, true
		}
	}
	return nil, false
}

// Remove deletes the note with the given ID
func (c *Collection) Remove(id uuid.UUID) (*Note, bool) {
	for i, n := range c.notes {
		if n.ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			return n, true
		}
	}
	return nil, false
}

// SetDescription replaces a note's description
func (c *Collection) SetDescription(id uuid.UUID, description string) (*Note, bool) {
	n, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	n.Description = description
	n.UpdatedAt = c.now()
	return n, true
}

// Titles returns the titles in insertion order
func (c *Collection) Titles() []string {
	titles := make([]string, len(c.notes))
	for i, n := range c.notes {
		titles[i] = n.Title
	}
	return titles
}

// All returns copies of every note in insertion order
func (c *Collection) All() []Note {
	out := make([]Note, len(c.notes))
	for i, n := range c.notes {
		out[i] = *n
	}
	return out
}

func (c *Collection) Len() int {
	return len(c.notes)
}

// Search finds notes by title.
// An exact (trimmed, case-insensitive) title match short-circuits fuzzy scoring,
// so an existing title can never lose to a different title with an equal score.
// Otherwise every title scoring >= cutoff is returned, best first.
func (c *Collection) Search(query string, cutoff float64) []*Note {
	if len(c.notes) == 0 {
		return nil
	}

	q := strings.TrimSpace(query)
	var exact []*Note
	for _, n := range c.notes {
		if strings.EqualFold(strings.TrimSpace(n.Title), q) {
			exact = append(exact, n)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	matches := lexical.AllMatches(q, c.Titles(), cutoff)
	out := make([]*Note, len(matches))
	for i, m := range matches {
		out[i] = c.notes[m.Index]
	}
	return out
}
