package twob

import "context"

// CompletionRequest describes a single model call.
type CompletionRequest struct {
	// Message is the user-turn content.
	Message string

	// SystemPrompt overrides the configured personality prompt when set.
	SystemPrompt string

	// IncludeHistory prepends recent conversation history, trimmed to the
	// model's token budget.
	IncludeHistory bool
}

// Completer generates text with a large-language model.
type Completer interface {
	// Complete sends the request and returns the model's text reply.
	// Returns EUNAVAILABLE if no API key is configured.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
