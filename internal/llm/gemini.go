package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const GeminiProvider ModelProvider = "gemini"

// suggestionSchema constrains FormatSuggestions output to an array of {file, line, comment}.
var suggestionSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"file":    {Type: genai.TypeString, Description: "Path of the file, relative to the repository root."},
			"line":    {Type: genai.TypeInteger, Description: "Line number on the new side of the diff."},
			"comment": {Type: genai.TypeString, Description: "The review comment."},
		},
		Required: []string{"file", "line", "comment"},
	},
}

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiGenerator creates a Gemini-backed Generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set in environment for gemini provider")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model, logger: logger}, nil
}

func (g *GeminiGenerator) Provider() ModelProvider { return GeminiProvider }

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History))
	for _, t := range req.History {
		role := genai.RoleUser
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(role)))
	}

	var cfg *genai.GenerateContentConfig
	if req.Format == FormatSuggestions {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   suggestionSchema,
		}
	}

	g.logger.DebugContext(ctx, "calling gemini", "model", g.model, "turns", len(contents), "format", req.Format)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}
