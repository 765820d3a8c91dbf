package intent

import (
	"encoding/json"
	"fmt"
)

// Payload is the data sent alongside a command: either plain text or a
// structured object carrying note fields.
type Payload struct {
	Text   string
	Fields map[string]interface{}
}

func TextPayload(text string) Payload {
	return Payload{Text: text}
}

func FieldsPayload(fields map[string]interface{}) Payload {
	return Payload{Fields: fields}
}

func (p Payload) IsStructured() bool {
	return p.Fields != nil
}

// Field returns a structured field rendered as a string
func (p Payload) Field(key string) (string, bool) {
	if p.Fields == nil {
		return "", false
	}
	v, ok := p.Fields[key]
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

// String returns the text, or the structured fields as JSON
func (p Payload) String() string {
	if !p.IsStructured() {
		return p.Text
	}
	raw, err := json.Marshal(p.Fields)
	if err != nil {
		return fmt.Sprint(p.Fields)
	}
	return string(raw)
}

// Title returns the structured title, else fallback for structured payloads,
// else the text.
func (p Payload) Title(fallback string) string {
	if !p.IsStructured() {
		return p.Text
	}
	if t, ok := p.Field("title"); ok {
		return t
	}
	return fallback
}

// Description returns the structured description, or "" for text payloads
func (p Payload) Description() string {
	d, _ := p.Field("description")
	return d
}
