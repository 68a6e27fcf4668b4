package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-warden/internal/core"
)

// fixedLines returns the unconditional lines of a prompt template that contain no template action.
func fixedLines(t *testing.T, name string) []string {
	t.Helper()
	content, err := promptFiles.ReadFile("prompts/" + name)
	require.NoError(t, err)

	var lines []string
	depth := 0
	for _, line := range strings.Split(string(content), "\n") {
		switch {
		case strings.Contains(line, "{{- if") || strings.Contains(line, "{{- range"):
			depth++
			continue
		case strings.Contains(line, "{{- end"):
			depth--
			continue
		}
		if depth > 0 || strings.TrimSpace(line) == "" || strings.Contains(line, "{{") {
			continue
		}
		lines = append(lines, line)
	}
	require.NotEmpty(t, lines)
	return lines
}

func TestNewPromptManager_LoadsEmbeddedPrompts(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	_, err = pm.Get(ReviewPrompt, DefaultProvider)
	assert.NoError(t, err)
	_, err = pm.Get(InlineSuggestionsPrompt, OllamaProvider)
	assert.NoError(t, err)
	_, err = pm.Get("nonexistent", DefaultProvider)
	assert.Error(t, err)
}

func TestPromptManager_FallsBackToDefaultProvider(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	tmpl, err := pm.Get(ReviewPrompt, GeminiProvider)
	require.NoError(t, err)
	assert.Equal(t, "review_default", tmpl.Name())

	tmpl, err = pm.Get(InlineSuggestionsPrompt, OllamaProvider)
	require.NoError(t, err)
	assert.Equal(t, "inline_suggestions_ollama", tmpl.Name())
}

func TestReviewPrompt_ContainsDiffAndInstructions(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	diffs := []string{
		"+console.log('x')",
		"diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n@@ -1 +1 @@\n-x := 1\n+x := \"<b>&amp;</b>\"\n",
		"{{.Diff}} $ ` \\ %s",
		"",
	}
	for _, diff := range diffs {
		prompt, err := pm.ReviewPromptFor(GeminiProvider, diff, nil)
		require.NoError(t, err)
		assert.Contains(t, prompt, "Code Diff:\n"+diff)
		for _, line := range fixedLines(t, "review_default.prompt") {
			assert.Contains(t, prompt, line)
		}
	}
}

func TestInlinePrompt_ContainsDiffAndInstructions(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	diff := "+console.log('x')"
	prompt, err := pm.InlinePromptFor(GeminiProvider, diff, core.DefaultRepoConfig(), 5)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Git Diff:\n"+diff)
	assert.Contains(t, prompt, "Return up to 5 inline review suggestions as JSON array only.")
	for _, line := range fixedLines(t, "inline_suggestions_default.prompt") {
		assert.Contains(t, prompt, line)
	}
}

func TestReviewPrompt_CustomInstructions(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	cfg := &core.RepoConfig{CustomInstructions: []string{"Prefer table-driven tests.", "No panics in library code."}}
	prompt, err := pm.ReviewPromptFor(GeminiProvider, "+x", cfg)
	require.NoError(t, err)
	assert.Contains(t, prompt, "- Prefer table-driven tests.\n- No panics in library code.")

	plain, err := pm.ReviewPromptFor(GeminiProvider, "+x", core.DefaultRepoConfig())
	require.NoError(t, err)
	assert.NotContains(t, plain, "Additional instructions")
}
