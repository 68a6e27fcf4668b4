package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/ollama"
)

const OllamaProvider ModelProvider = "ollama"

// OllamaGenerator adapts a goframe model to Generator. The conversation is
// flattened into a single prompt and the requested format is carried by the prompt alone.
type OllamaGenerator struct {
	model  llms.Model
	logger *slog.Logger
}

// NewOllamaGenerator connects to an Ollama server through goframe.
func NewOllamaGenerator(host, modelName string, logger *slog.Logger) (*OllamaGenerator, error) {
	model, err := ollama.New(
		ollama.WithServerURL(host),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(newOllamaHTTPClient()),
		ollama.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama model: %w", err)
	}
	return NewModelGenerator(model, logger), nil
}

// NewModelGenerator wraps any goframe model.
func NewModelGenerator(model llms.Model, logger *slog.Logger) *OllamaGenerator {
	return &OllamaGenerator{model: model, logger: logger}
}

func (o *OllamaGenerator) Provider() ModelProvider { return OllamaProvider }

func (o *OllamaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	o.logger.DebugContext(ctx, "calling ollama", "turns", len(req.History), "format", req.Format)
	resp, err := o.model.Call(ctx, req.History.Transcript())
	if err != nil {
		return "", fmt.Errorf("ollama call: %w", err)
	}
	return resp, nil
}

func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport}
}
