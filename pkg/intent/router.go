package intent

import (
	"context"
	"strings"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/pkg/dialogue"
	"github.com/yorikya/note-speaker/pkg/lexical"
)

// Router resolves one command against the current dialogue state.
// Resolve is pure: it never mutates the state or the notes.
type Router struct {
	general      *GeneralRouter
	prefixes     map[Action][]string
	deleteCutoff float64
	logger       logger.ILogger
}

// NewRouter creates a new intent router
func NewRouter(general *GeneralRouter, deleteCutoff float64, log logger.ILogger) *Router {
	if deleteCutoff <= 0 {
		deleteCutoff = lexical.DeleteIntentCutoff
	}

	prefixes := make(map[Action][]string, len(ActionPriority))
	for _, action := range ActionPriority {
		prefixes[action] = prefixPhrases(action)
	}

	return &Router{
		general:      general,
		prefixes:     prefixes,
		deleteCutoff: deleteCutoff,
		logger:       log,
	}
}

// Resolve maps a command to an action. First matching layer wins.
func (r *Router) Resolve(ctx context.Context, command string, payload Payload, state dialogue.State) Resolution {
	// 1. Recording mode owns every utterance
	if state.IsRecording() {
		return r.resolveRecording(command, payload)
	}

	// 2. Generic cancel
	if strings.EqualFold(command, CancelCommand) {
		return Resolution{Action: ActionCancel, Stage: "cancel"}
	}

	// 3. Phrase prefix, in action priority order
	if res, ok := r.resolvePrefix(command, payload); ok {
		return res
	}

	// 4. Delete confirmation
	if state.AwaitingConfirmation() && IsDeleteIntent(command, r.deleteCutoff) {
		r.logger.Info("ROUTER", "Delete intent confirmed", map[string]interface{}{
			"command": command,
			"title":   state.LastFoundTitle,
		})
		return Resolution{
			Action: ActionDelete,
			Title:  state.LastFoundTitle,
			NoteID: state.LastFoundNoteID,
			Stage:  "confirmation",
		}
	}

	// 5. A bare "find" never gets here: the prefix layer already owns it.

	// 6. Start recording
	if strings.EqualFold(strings.TrimSpace(command), UpdateDescriptionCommand) {
		return r.resolveUpdateDescription(payload, state)
	}

	// 7. Tool names, create override, similarity
	return r.general.Route(ctx, command, payload)
}

func (r *Router) resolveRecording(command string, payload Payload) Resolution {
	switch {
	case strings.EqualFold(command, StopRecordingCommand):
		return Resolution{Action: ActionStopRecording, Stage: "recording"}
	case strings.EqualFold(command, CancelCommand):
		return Resolution{Action: ActionCancelRecording, Stage: "recording"}
	default:
		return Resolution{Action: ActionAccumulate, Line: payload.String(), Stage: "recording"}
	}
}

func (r *Router) resolvePrefix(command string, payload Payload) (Resolution, bool) {
	for _, action := range ActionPriority {
		phrase, remainder, ok := ExtractPrefix(command, r.prefixes[action])
		if !ok {
			continue
		}

		r.logger.Debug("ROUTER", "Phrase prefix matched", map[string]interface{}{
			"command": command,
			"phrase":  phrase,
			"action":  string(action),
		})

		switch action {
		case ActionCreate:
			title := remainder
			if payload.IsStructured() {
				title = payload.Title(remainder)
			}
			return Resolution{
				Action:      ActionCreate,
				Title:       title,
				Description: payload.Description(),
				Stage:       "prefix",
			}, true
		case ActionFind:
			query := remainder
			if query == "" && phrase == string(ActionFind) {
				// bare "find" takes its query from the payload
				query = payload.Title(payload.String())
			}
			return Resolution{Action: ActionFind, Query: query, Stage: "prefix"}, true
		}
	}
	return Resolution{}, false
}

func (r *Router) resolveUpdateDescription(payload Payload, state dialogue.State) Resolution {
	title := strings.TrimSpace(payload.Title(""))
	if strings.EqualFold(title, UpdateDescriptionCommand) {
		// chat transports echo the command as its payload
		title = ""
	}
	res := Resolution{Action: ActionStartRecording, Title: title, Stage: "update"}

	if state.AwaitingConfirmation() && (title == "" || title == state.LastFoundTitle) {
		res.Title = state.LastFoundTitle
		res.NoteID = state.LastFoundNoteID
	}
	return res
}
