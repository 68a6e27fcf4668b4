// Package config loads process configuration from the environment and
// per-repository settings from the checked-out tree.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/pr-warden/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	// GitHub Actions context
	Repository string
	Ref        string
	EventName  string
	EventPath  string
	PRNumber   int

	GitHubToken          string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKeyPath string
	GitHubWebhookSecret  string
	GitHubTimeout        time.Duration

	LLMProvider        string
	GeminiAPIKey       string
	GeneratorModelName string
	OllamaHost         string
	AITimeout          time.Duration
	AIParallelCalls    int

	MaxDiffBytes   int
	MaxSuggestions int
	RedactSecrets  bool

	ServerPort string
	MaxWorkers int

	LoggerConfig logger.Config
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets defaults and normalises values. It uses the Viper library to handle
// configuration loading and precedence. Mode-specific requirements are checked
// by ValidateForReview and ValidateForServer.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("AI_TIMEOUT", "3m")
	viper.SetDefault("AI_PARALLEL_CALLS", 1)
	viper.SetDefault("GITHUB_TIMEOUT", "30s")
	viper.SetDefault("MAX_DIFF_BYTES", 120000)
	viper.SetDefault("MAX_SUGGESTIONS", 5)
	viper.SetDefault("REDACT_SECRETS", true)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MAX_WORKERS", 3)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stderr")

	if err := viper.ReadInConfig(); err != nil {
		if !isMissingConfigFile(err) {
			slog.Error("failed to read config file", "error", err)
		}
	}

	provider := strings.ToLower(strings.TrimSpace(viper.GetString("LLM_PROVIDER")))
	generatorModel := viper.GetString("GENERATOR_MODEL_NAME")
	if generatorModel == "" {
		switch provider {
		case "gemini":
			generatorModel = "gemini-2.0-flash"
		case "ollama":
			generatorModel = "gemma3:latest"
		}
	}

	aiTimeout, err := parseDuration("AI_TIMEOUT")
	if err != nil {
		return nil, err
	}
	ghTimeout, err := parseDuration("GITHUB_TIMEOUT")
	if err != nil {
		return nil, err
	}

	maxDiff := viper.GetInt("MAX_DIFF_BYTES")
	if maxDiff < 0 {
		return nil, fmt.Errorf("MAX_DIFF_BYTES must not be negative, got %d", maxDiff)
	}

	return &Config{
		Repository: viper.GetString("GITHUB_REPOSITORY"),
		Ref:        viper.GetString("GITHUB_REF"),
		EventName:  viper.GetString("GITHUB_EVENT_NAME"),
		EventPath:  viper.GetString("GITHUB_EVENT_PATH"),
		PRNumber:   viper.GetInt("PR_NUMBER"),

		GitHubToken:          viper.GetString("GITHUB_TOKEN"),
		GitHubAppID:          viper.GetInt64("GITHUB_APP_ID"),
		GitHubInstallationID: viper.GetInt64("GITHUB_INSTALLATION_ID"),
		GitHubPrivateKeyPath: viper.GetString("GITHUB_PRIVATE_KEY_PATH"),
		GitHubWebhookSecret:  viper.GetString("GITHUB_WEBHOOK_SECRET"),
		GitHubTimeout:        ghTimeout,

		LLMProvider:        provider,
		GeminiAPIKey:       viper.GetString("GEMINI_API_KEY"),
		GeneratorModelName: generatorModel,
		OllamaHost:         viper.GetString("OLLAMA_HOST"),
		AITimeout:          aiTimeout,
		AIParallelCalls:    viper.GetInt("AI_PARALLEL_CALLS"),

		MaxDiffBytes:   maxDiff,
		MaxSuggestions: viper.GetInt("MAX_SUGGESTIONS"),
		RedactSecrets:  viper.GetBool("REDACT_SECRETS"),

		ServerPort: viper.GetString("SERVER_PORT"),
		MaxWorkers: viper.GetInt("MAX_WORKERS"),

		LoggerConfig: logger.Config{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}, nil
}

// UsesGitHubApp reports whether GitHub App credentials are configured.
func (c *Config) UsesGitHubApp() bool {
	return c.GitHubAppID != 0 && c.GitHubPrivateKeyPath != ""
}

// ValidateForReview checks the settings needed to publish a one-shot review.
func (c *Config) ValidateForReview() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if c.GitHubToken == "" && !c.UsesGitHubApp() {
		return fmt.Errorf("either GITHUB_TOKEN or GITHUB_APP_ID with GITHUB_PRIVATE_KEY_PATH must be set")
	}
	return nil
}

// ValidateForDryRun checks the settings needed to generate a review without publishing it.
func (c *Config) ValidateForDryRun() error {
	return c.validateLLM()
}

// ValidateForServer checks the settings needed to run the webhook server.
func (c *Config) ValidateForServer() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if !c.UsesGitHubApp() {
		return fmt.Errorf("GITHUB_APP_ID and GITHUB_PRIVATE_KEY_PATH must be set")
	}
	if c.GitHubWebhookSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET must be set")
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
	case "ollama":
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST must be set for ollama provider")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}
	return nil
}

func parseDuration(key string) (time.Duration, error) {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}

// isMissingConfigFile reports whether err only says that the optional .env file is absent.
// SetConfigFile makes viper surface the raw fs error instead of ConfigFileNotFoundError.
func isMissingConfigFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
