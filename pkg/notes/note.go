package notes

import (
	"time"

	"github.com/google/uuid"
)

// Note is a titled piece of text owned by one session.
// Titles are not unique; ID is the identity key.
type Note struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
