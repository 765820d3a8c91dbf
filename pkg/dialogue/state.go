package dialogue

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Mode is the conversation mode of a session
type Mode string

const (
	ModeIdle                       Mode = "IDLE"
	ModeRecording                  Mode = "RECORDING"
	ModeAwaitingDeleteConfirmation Mode = "AWAITING_DELETE_CONFIRMATION"
)

// State is the per-session dialogue state consulted before every command.
//
// RecordingTarget, RecordingNoteID and AccumulatedLines are only meaningful in
// ModeRecording. LastFoundTitle and LastFoundNoteID are only meaningful in
// ModeAwaitingDeleteConfirmation. Entering one mode clears the other's fields.
type State struct {
	Mode             Mode      `json:"mode"`
	RecordingTarget  string    `json:"recording_target,omitempty"`
	RecordingNoteID  uuid.UUID `json:"recording_note_id"`
	AccumulatedLines []string  `json:"accumulated_lines,omitempty"`
	LastFoundTitle   string    `json:"last_found_title,omitempty"`
	LastFoundNoteID  uuid.UUID `json:"last_found_note_id"`
}

var ErrInvalidState = errors.New("invalid dialogue state")

func NewState() State {
	return State{Mode: ModeIdle}
}

func (s State) IsRecording() bool {
	return s.Mode == ModeRecording
}

func (s State) AwaitingConfirmation() bool {
	return s.Mode == ModeAwaitingDeleteConfirmation
}

// Validate reports a state whose fields disagree with its mode
func (s State) Validate() error {
	switch s.Mode {
	case ModeIdle:
		if s.hasRecordingFields() || s.hasConfirmationFields() {
			return fmt.Errorf("%w: idle state carries leftover fields", ErrInvalidState)
		}
	case ModeRecording:
		if s.hasConfirmationFields() {
			return fmt.Errorf("%w: recording state carries a pending confirmation", ErrInvalidState)
		}
	case ModeAwaitingDeleteConfirmation:
		if s.LastFoundTitle == "" && s.LastFoundNoteID == uuid.Nil {
			return fmt.Errorf("%w: confirmation state has no found note", ErrInvalidState)
		}
		if s.hasRecordingFields() {
			return fmt.Errorf("%w: confirmation state carries recording fields", ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidState, s.Mode)
	}
	return nil
}

func (s State) hasRecordingFields() bool {
	return s.RecordingTarget != "" || s.RecordingNoteID != uuid.Nil || len(s.AccumulatedLines) > 0
}

func (s State) hasConfirmationFields() bool {
	return s.LastFoundTitle != "" || s.LastFoundNoteID != uuid.Nil
}
