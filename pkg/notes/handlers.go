package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/pkg/events"
	"github.com/yorikya/note-speaker/pkg/lexical"
)

// FindKind classifies a title search
type FindKind int

const (
	NotFound FindKind = iota
	SingleMatch
	MultipleMatches
)

// FindResult is the structured outcome of a title search
type FindResult struct {
	Kind  FindKind
	Query string
	Notes []Note
}

// Single returns the matched note when exactly one note matched
func (r FindResult) Single() (Note, bool) {
	if r.Kind != SingleMatch {
		return Note{}, false
	}
	return r.Notes[0], true
}

func (r FindResult) Titles() []string {
	titles := make([]string, len(r.Notes))
	for i, n := range r.Notes {
		titles[i] = n.Title
	}
	return titles
}

func (r FindResult) String() string {
	switch r.Kind {
	case SingleMatch:
		return "Note found: " + r.Notes[0].Title
	case MultipleMatches:
		return "Notes found: " + strings.Join(r.Titles(), ", ")
	default:
		return fmt.Sprintf("Note '%s' not found.", r.Query)
	}
}

// Handlers implements the note actions the router dispatches to.
// Every method answers with a reply string; none of them fail.
type Handlers struct {
	notes       *Collection
	titleCutoff float64
	sessionID   string
	publisher   events.Publisher
	logger      logger.ILogger
}

func NewHandlers(
	notes *Collection,
	titleCutoff float64,
	sessionID string,
	publisher events.Publisher,
	log logger.ILogger,
) *Handlers {
	if titleCutoff <= 0 {
		titleCutoff = lexical.TitleSearchCutoff
	}
	return &Handlers{
		notes:       notes,
		titleCutoff: titleCutoff,
		sessionID:   sessionID,
		publisher:   publisher,
		logger:      log,
	}
}

// Create appends a note. Empty titles are accepted.
func (h *Handlers) Create(ctx context.Context, title, description string) string {
	n := h.notes.Add(title, description)
	h.logger.Info("NOTES", "Created note", map[string]interface{}{
		"note_id": n.ID.String(),
		"title":   title,
		"total":   h.notes.Len(),
	})
	h.publish(ctx, events.NoteCreated, n)
	return "Note created: " + title
}

// Find searches titles; see Collection.Search for the matching rules
func (h *Handlers) Find(_ context.Context, query string) FindResult {
	found := h.notes.Search(query, h.titleCutoff)

	result := FindResult{Query: query}
	for _, n := range found {
		result.Notes = append(result.Notes, *n)
	}
	switch len(found) {
	case 0:
		result.Kind = NotFound
	case 1:
		result.Kind = SingleMatch
	default:
		result.Kind = MultipleMatches
	}

	h.logger.Debug("NOTES", "Find", map[string]interface{}{
		"query":   query,
		"matches": result.Titles(),
	})
	return result
}

// Delete removes the note with the given ID, or the first note titled title
// when the ID is unknown.
func (h *Handlers) Delete(ctx context.Context, id uuid.UUID, title string) string {
	n, ok := h.notes.Remove(id)
	if !ok {
		if byTitle, found := h.notes.FirstByTitle(title); found {
			n, ok = h.notes.Remove(byTitle.ID)
		}
	}
	if !ok {
		return fmt.Sprintf("Note %q not found.", title)
	}

	h.logger.Info("NOTES", "Deleted note", map[string]interface{}{
		"note_id": n.ID.String(),
		"title":   n.Title,
	})
	h.publish(ctx, events.NoteDeleted, n)
	return fmt.Sprintf("Note %q was deleted.", title)
}

// UpdateDescription replaces the description of the note being recorded
func (h *Handlers) UpdateDescription(ctx context.Context, id uuid.UUID, title, description string) string {
	n, ok := h.notes.SetDescription(id, description)
	if !ok {
		if byTitle, found := h.notes.FirstByTitle(title); found {
			n, ok = h.notes.SetDescription(byTitle.ID, description)
		}
	}
	if !ok {
		return fmt.Sprintf("Note '%s' not found.", title)
	}

	h.publish(ctx, events.NoteDescriptionUpdated, n)
	return fmt.Sprintf("Stopped recording. Updated '%s' description.", title)
}

// Notes returns a snapshot of the collection
func (h *Handlers) Notes() []Note {
	return h.notes.All()
}

func (h *Handlers) publish(ctx context.Context, eventType string, n *Note) {
	if h.publisher == nil {
		return
	}
	event := events.NewNoteEvent(eventType, h.sessionID, n.ID.String(), n.Title, n.Description)
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("NOTES", "Failed to publish note event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
