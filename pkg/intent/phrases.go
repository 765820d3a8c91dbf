package intent

import (
	"sort"
	"strings"

	"github.com/yorikya/note-speaker/pkg/lexical"
)

// Action is a canonical action the router can resolve a command to
type Action string

const (
	ActionCreate          Action = "create"
	ActionFind            Action = "find"
	ActionStartRecording  Action = "update_description"
	ActionAccumulate      Action = "accumulate"
	ActionStopRecording   Action = "stop_recording"
	ActionCancelRecording Action = "cancel_recording"
	ActionCancel          Action = "cancel"
	ActionDelete          Action = "delete"
	ActionUnsupported     Action = "unsupported"
)

// Literal commands with a fixed meaning
const (
	StopRecordingCommand     = "stop recording"
	CancelCommand            = "cancel"
	UpdateDescriptionCommand = "update description"
)

// ActionPriority is the order in which phrase prefixes are tried.
// Create goes first so a title such as "find my keys" survives
// "create find my keys" intact.
var ActionPriority = []Action{ActionCreate, ActionFind}

// CanonicalPhrases maps each tool action to its phrases, in declaration order
var CanonicalPhrases = map[Action][]string{
	ActionCreate: {
		"add a note", "jot note", "note down", "create", "create note", "add note", "new note",
		"create a new note", "add a new note", "make note", "write note", "save note", "record note",
		"capture note", "take note", "add something", "add entry", "add record", "add text",
		"add message", "add memo", "add reminder", "add log", "add journal", "add thought", "add idea",
		"add info", "add information", "write something", "write entry", "write record", "write text",
		"write message", "write memo", "write reminder", "write log", "write journal", "write thought",
		"write idea", "write info", "write information",
	},
	ActionFind: {
		"find", "search note", "look for note", "get note", "locate note", "lookup note",
		"retrieve note", "show note", "display note", "view note",
	},
}

// DeleteIntents are the affirmative replies accepted after a single-match find
var DeleteIntents = []string{
	"yes", "yes delete", "delete", "delete the note", "remove it", "remove note", "please delete", "delete this note",
}

// IsDeleteIntent reports whether text fuzzily matches any delete phrase at or above cutoff
func IsDeleteIntent(text string, cutoff float64) bool {
	_, ok := lexical.BestMatch(strings.ToLower(text), DeleteIntents, cutoff)
	return ok
}

// Tools lists the actions a command can be routed to directly, in priority order
func Tools() []string {
	tools := make([]string, len(ActionPriority))
	for i, a := range ActionPriority {
		tools[i] = string(a)
	}
	return tools
}

// prefixPhrases returns the tool literal followed by its canonical phrases,
// longest first. Equal lengths keep declaration order.
func prefixPhrases(action Action) []string {
	phrases := append([]string{string(action)}, CanonicalPhrases[action]...)
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})
	return phrases
}

// ExtractPrefix finds the longest phrase that prefixes command (case-insensitive)
// and returns it with the trimmed remainder.
func ExtractPrefix(command string, phrases []string) (phrase, remainder string, ok bool) {
	for _, p := range phrases {
		if len(command) >= len(p) && strings.EqualFold(command[:len(p)], p) {
			return p, strings.TrimSpace(command[len(p):]), true
		}
	}
	return "", command, false
}
