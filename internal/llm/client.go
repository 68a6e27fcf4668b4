package llm

import "context"

//go:generate mockgen -destination=../../mocks/mock_generator.go -package=mocks github.com/sevigo/pr-warden/internal/llm Generator

// Format selects the response shape requested from the model.
type Format int

const (
	// FormatText asks for free-form text.
	FormatText Format = iota
	// FormatSuggestions asks for a JSON array of {file, line, comment} objects.
	FormatSuggestions
)

// Request is a single generation call.
type Request struct {
	History Conversation
	Format  Format
}

// Generator sends a conversation to a text-generation endpoint and returns the model output.
// No retries are performed; transport and API errors are returned as-is.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Provider() ModelProvider
}
