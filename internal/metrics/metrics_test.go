package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorikya/note-speaker/pkg/intent"
)

func TestHandlerExposesObservedCommands(t *testing.T) {
	CommandObserver{}.ObserveCommand(intent.ActionCreate, "prefix", 2*time.Millisecond)
	CommandObserver{}.ObserveCommand(intent.ActionCancel, "", time.Millisecond)
	ActiveSessions.Set(3)

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `note_speaker_resolutions_total{action="create",stage="prefix"}`)
	assert.Contains(t, text, `note_speaker_resolutions_total{action="cancel",stage="none"}`)
	assert.Contains(t, text, `note_speaker_command_duration_seconds_count{action="create"}`)
	assert.Contains(t, text, "note_speaker_active_sessions 3")
}
