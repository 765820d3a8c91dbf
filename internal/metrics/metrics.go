package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yorikya/note-speaker/pkg/intent"
)

var (
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_speaker_resolutions_total",
			Help: "Commands resolved, by action and routing stage",
		},
		[]string{"action", "stage"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "note_speaker_command_duration_seconds",
			Help:    "Time to resolve and execute one command",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"action"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "note_speaker_active_sessions",
			Help: "Number of live assistant sessions",
		},
	)
)

// CommandObserver records every handled command
type CommandObserver struct{}

func (CommandObserver) ObserveCommand(action intent.Action, stage string, elapsed time.Duration) {
	if stage == "" {
		stage = "none"
	}
	Resolutions.WithLabelValues(string(action), stage).Inc()
	CommandDuration.WithLabelValues(string(action)).Observe(elapsed.Seconds())
}

// Handler exposes the default registry for scraping
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
