package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pr-warden",
	Short: "pr-warden reviews GitHub pull requests with an AI model.",
	Long: `pr-warden turns the diff of a pull request into a review comment, a
suggested label and inline suggestions. Run "review" from CI or "serve" to
receive GitHub webhooks.`,
	SilenceUsage: true,
}

// persistentFlags maps flags shared by every command to their environment keys.
var persistentFlags = []struct {
	name, env, usage string
}{
	{"github-token", "GITHUB_TOKEN", "GitHub token used to publish the review"},
	{"gemini-api-key", "GEMINI_API_KEY", "API key for the Gemini provider"},
	{"llm-provider", "LLM_PROVIDER", "AI provider: gemini or ollama"},
	{"model", "GENERATOR_MODEL_NAME", "model used to generate the review"},
	{"ollama-host", "OLLAMA_HOST", "Ollama server URL"},
	{"log-level", "LOG_LEVEL", "log level: debug, info, warn or error"},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	for _, f := range persistentFlags {
		rootCmd.PersistentFlags().String(f.name, "", f.usage)
		if err := viper.BindPFlag(f.env, rootCmd.PersistentFlags().Lookup(f.name)); err != nil {
			slog.Error("Error binding flag", "flag", f.name, "error", err)
			os.Exit(1)
		}
	}
}

// initConfig makes the GitHub Actions environment visible before a command resolves its target.
func initConfig() {
	viper.AutomaticEnv()
}
