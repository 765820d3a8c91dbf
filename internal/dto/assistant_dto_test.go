package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		structured bool
		text       string
		title      string
	}{
		{"missing", ``, false, "fallback", ""},
		{"null", `null`, false, "fallback", ""},
		{"string", `"shopping list"`, false, "shopping list", ""},
		{"object", `{"title":"x","description":"y"}`, true, "", "x"},
		{"number", `42`, false, "42", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload(json.RawMessage(tt.raw), "fallback")
			require.NoError(t, err)
			assert.Equal(t, tt.structured, p.IsStructured())
			if tt.structured {
				assert.Equal(t, tt.title, p.Title(""))
			} else {
				assert.Equal(t, tt.text, p.Text)
			}
		})
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	_, err := DecodePayload(json.RawMessage(`{"title":`), "")
	assert.Error(t, err)
}

func TestNoteEventMessageSessionID(t *testing.T) {
	m := NoteEventMessage{Data: map[string]interface{}{"session_id": "abc"}}
	assert.Equal(t, "abc", m.SessionID())
	assert.Empty(t, NoteEventMessage{}.SessionID())
}
