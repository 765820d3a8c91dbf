package intent

import (
	"context"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/pkg/embedding"
	"github.com/yorikya/note-speaker/pkg/nlp"
)

// DefaultSimilarityThreshold is the minimum cosine similarity for the
// embedding fallback to dispatch an action.
const DefaultSimilarityThreshold = 0.6

type phraseEntry struct {
	phrase string
	action Action
}

// GeneralRouter is the last routing layer: direct tool names, the normalized
// create-phrase override, then nearest canonical phrase by embedding.
type GeneralRouter struct {
	matcher       *embedding.Matcher
	phrases       []phraseEntry
	embeddings    [][]float32
	createPhrases map[string]struct{}
	threshold     float64
	logger        logger.ILogger
}

// NewGeneralRouter embeds every normalized canonical phrase once
func NewGeneralRouter(ctx context.Context, matcher *embedding.Matcher, threshold float64, log logger.ILogger) *GeneralRouter {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	g := &GeneralRouter{
		matcher:       matcher,
		createPhrases: make(map[string]struct{}),
		threshold:     threshold,
		logger:        log,
	}

	var raw []string
	for _, action := range ActionPriority {
		for _, p := range CanonicalPhrases[action] {
			g.phrases = append(g.phrases, phraseEntry{phrase: p, action: action})
			raw = append(raw, p)
		}
	}
	for _, p := range nlp.NormalizeAll(CanonicalPhrases[ActionCreate]) {
		g.createPhrases[p] = struct{}{}
	}
	g.embeddings = matcher.EmbedBatch(ctx, nlp.NormalizeAll(raw))

	log.Info("ROUTER", "Canonical phrase embeddings ready", map[string]interface{}{
		"phrases":   len(g.phrases),
		"threshold": threshold,
	})
	return g
}

// Route resolves a command no earlier layer claimed
func (g *GeneralRouter) Route(ctx context.Context, command string, payload Payload) Resolution {
	for _, tool := range ActionPriority {
		if command == string(tool) {
			g.logger.Debug("ROUTER", "Direct tool match", map[string]interface{}{"command": command})
			return toolResolution(tool, payload, "direct")
		}
	}

	norm := nlp.Normalize(command)
	if _, ok := g.createPhrases[norm]; ok {
		g.logger.Debug("ROUTER", "Create phrase override", map[string]interface{}{"command": command})
		return toolResolution(ActionCreate, payload, "override")
	}

	query := g.matcher.Embed(ctx, norm)
	bestIdx, bestSim := -1, -2.0
	for i, emb := range g.embeddings {
		sim := embedding.CosineSimilarity(query, emb)
		if sim > bestSim {
			bestIdx, bestSim = i, sim
		}
	}
	if bestIdx < 0 {
		return Resolution{Action: ActionUnsupported, Command: command, Suggestion: ActionCreate, Stage: "similarity"}
	}

	best := g.phrases[bestIdx]
	g.logger.Info("ROUTER", "Similarity match", map[string]interface{}{
		"command":    command,
		"phrase":     best.phrase,
		"similarity": bestSim,
		"action":     string(best.action),
	})

	if bestSim < g.threshold {
		return Resolution{
			Action:     ActionUnsupported,
			Command:    command,
			Suggestion: best.action,
			Phrase:     best.phrase,
			Similarity: bestSim,
			Stage:      "similarity",
		}
	}

	res := toolResolution(best.action, payload, "similarity")
	res.Phrase = best.phrase
	res.Similarity = bestSim
	return res
}

// toolResolution hands the payload to a tool the way a direct call would
func toolResolution(action Action, payload Payload, stage string) Resolution {
	switch action {
	case ActionCreate:
		return Resolution{
			Action:      ActionCreate,
			Title:       payload.Title(""),
			Description: payload.Description(),
			Stage:       stage,
		}
	default:
		return Resolution{Action: ActionFind, Query: payload.Title(payload.String()), Stage: stage}
	}
}
