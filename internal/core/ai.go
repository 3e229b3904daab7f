package core

import "context"

type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)

	// GenerateWithConfig is the raw single-prompt entry used by the
	// generation endpoint; maxTokens/temperature come from the request.
	GenerateWithConfig(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error)
}
