package core

// DefaultMaxSuggestions caps the number of inline suggestions requested per review.
const DefaultMaxSuggestions = 5

// RepoConfig represents the structure of the .pr-warden.yml file.
type RepoConfig struct {
	// Custom instructions appended to the review prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// Glob patterns of files left out of the diff sent to the model.
	// Example: ["*.lock", "**/vendor/*", "docs/*"]
	ExcludePaths []string `yaml:"exclude_paths"`

	// Overrides the global diff budget when positive.
	MaxDiffBytes int `yaml:"max_diff_bytes"`

	// Overrides the global inline suggestion cap when positive.
	MaxSuggestions int `yaml:"max_suggestions"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CustomInstructions: []string{},
		ExcludePaths:       []string{},
	}
}
