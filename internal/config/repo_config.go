package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/pr-warden/internal/core"
)

// RepoConfigFile is the per-repository settings file looked up in the workspace root.
const RepoConfigFile = ".pr-warden.yml"

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// LoadRepoConfig loads and parses the .pr-warden.yml file from a repository path.
// A missing file yields the defaults together with ErrConfigNotFound.
func LoadRepoConfig(repoPath string) (*core.RepoConfig, error) {
	configPath := filepath.Join(repoPath, RepoConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultRepoConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", RepoConfigFile, err)
	}

	config := core.DefaultRepoConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if config.MaxSuggestions < 0 || config.MaxDiffBytes < 0 {
		return nil, fmt.Errorf("%w: limits must not be negative", ErrConfigParsing)
	}
	for _, pattern := range config.ExcludePaths {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%w: invalid exclude pattern %q: %w", ErrConfigParsing, pattern, err)
		}
	}
	return config, nil
}
