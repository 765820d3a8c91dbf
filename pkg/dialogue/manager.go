package dialogue

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
)

// Manager handles dialogue state transitions
type Manager struct {
	logger logger.ILogger
}

// NewManager creates a new state manager
func NewManager(log logger.ILogger) *Manager {
	return &Manager{logger: log}
}

// Recording is what a finished recording hands back to the note handlers
type Recording struct {
	Title       string
	NoteID      uuid.UUID
	Description string
}

// TransitionToIdle drops every mode-specific field
func (m *Manager) TransitionToIdle(s *State) {
	prev := s.Mode
	*s = NewState()
	m.logger.Debug("STATE", "Transitioned to IDLE", map[string]interface{}{
		"from": string(prev),
	})
}

// StartRecording enters recording mode for the given note and clears any
// accumulated lines or pending confirmation.
func (m *Manager) StartRecording(s *State, title string, noteID uuid.UUID) string {
	*s = State{
		Mode:            ModeRecording,
		RecordingTarget: title,
		RecordingNoteID: noteID,
	}
	m.logger.Info("STATE", "Transitioned to RECORDING", map[string]interface{}{
		"title": title,
	})
	return fmt.Sprintf("Starting description accumulation for '%s'. Send your description lines. Say 'stop recording' to finish.", title)
}

// Accumulate appends one description line
func (m *Manager) Accumulate(s *State, line string) string {
	s.AccumulatedLines = append(s.AccumulatedLines, line)
	m.logger.Debug("STATE", "Accumulated description line", map[string]interface{}{
		"title": s.RecordingTarget,
		"lines": len(s.AccumulatedLines),
	})
	return "Description line added. Continue or say 'stop recording'."
}

// FinishRecording returns the joined description and always resets to idle,
// whether or not the caller manages to store it.
func (m *Manager) FinishRecording(s *State) Recording {
	rec := Recording{
		Title:       s.RecordingTarget,
		NoteID:      s.RecordingNoteID,
		Description: strings.Join(s.AccumulatedLines, "\n"),
	}
	m.TransitionToIdle(s)
	return rec
}

// CancelRecording discards accumulated lines without touching the note
func (m *Manager) CancelRecording(s *State) string {
	m.logger.Info("STATE", "Recording cancelled", map[string]interface{}{
		"title":     s.RecordingTarget,
		"discarded": len(s.AccumulatedLines),
	})
	m.TransitionToIdle(s)
	return "Update cancelled. Description not changed."
}

// AwaitDeleteConfirmation remembers the single note a find returned
func (m *Manager) AwaitDeleteConfirmation(s *State, title string, noteID uuid.UUID) string {
	*s = State{
		Mode:            ModeAwaitingDeleteConfirmation,
		LastFoundTitle:  title,
		LastFoundNoteID: noteID,
	}
	m.logger.Info("STATE", "Transitioned to AWAITING_DELETE_CONFIRMATION", map[string]interface{}{
		"title": title,
	})
	return fmt.Sprintf("Found 1 record '%s'. Would you like me to update description or delete the record?", title)
}

// ClearConfirmation forgets the remembered note, if any
func (m *Manager) ClearConfirmation(s *State) {
	if !s.AwaitingConfirmation() {
		return
	}
	m.TransitionToIdle(s)
}
