package factory

import (
	"context"
	"fmt"

	"github.com/yorikya/note-speaker/pkg/llm"
	"github.com/yorikya/note-speaker/pkg/llm/gemini"
	"github.com/yorikya/note-speaker/pkg/llm/ollama"
)

func NewLLMProvider(ctx context.Context, providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		p, err := gemini.NewGeminiProvider(ctx, apiKey, modelName)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
