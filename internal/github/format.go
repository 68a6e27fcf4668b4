package github

import (
	"fmt"
	"strings"

	"github.com/sevigo/pr-warden/internal/core"
)

// formatInlineComment renders a suggestion as a GitHub review comment body.
// Prose is wrapped in a TIP alert; fenced code blocks are kept outside it.
func formatInlineComment(sug core.Suggestion) string {
	var sb strings.Builder
	state := &commentState{}
	for _, line := range strings.Split(strings.TrimSpace(sug.Comment), "\n") {
		processCommentLine(&sb, line, state, "TIP")
	}
	return strings.TrimRight(sb.String(), "\n")
}

type commentState struct {
	insideAlert bool
	inCodeBlock bool
}

func processCommentLine(sb *strings.Builder, line string, state *commentState, alertType string) {
	trimmedLine := strings.TrimSpace(line)

	if sb.Len() == 0 && trimmedLine == "" {
		return
	}

	if strings.HasPrefix(trimmedLine, "```") {
		if !state.inCodeBlock && state.insideAlert {
			state.insideAlert = false
			sb.WriteString("\n")
		}
		state.inCodeBlock = !state.inCodeBlock
		sb.WriteString(line + "\n")
		return
	}

	if state.inCodeBlock {
		sb.WriteString(line + "\n")
		return
	}

	// Sub-headers become bold text so they do not dominate the thread.
	if strings.HasPrefix(trimmedLine, "#") {
		if state.insideAlert {
			state.insideAlert = false
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "**%s**\n", strings.TrimSpace(strings.TrimLeft(trimmedLine, "#")))
		return
	}

	// Avoid nested blockquotes.
	if strings.HasPrefix(trimmedLine, ">") {
		line = strings.TrimPrefix(strings.TrimPrefix(trimmedLine, ">"), " ")
	}

	state.insideAlert = renderAlertLine(sb, line, trimmedLine, state.insideAlert, alertType)
}

func renderAlertLine(sb *strings.Builder, line, trimmed string, insideAlert bool, alertType string) bool {
	if !insideAlert && trimmed == "" {
		sb.WriteString("\n")
		return false
	}
	if !insideAlert {
		fmt.Fprintf(sb, "> [!%s]\n", alertType)
		insideAlert = true
	}
	if trimmed == "" {
		sb.WriteString(">\n")
	} else {
		fmt.Fprintf(sb, "> %s\n", line)
	}
	return insideAlert
}

// formatOffDiffComment collects suggestions whose lines are not part of the diff.
func formatOffDiffComment(suggestions []core.Suggestion) string {
	var sb strings.Builder
	sb.WriteString("### 📌 Suggestions outside the changed lines\n\n")
	sb.WriteString("These suggestions point at lines GitHub cannot comment on, so they are listed here.\n")
	for _, sug := range suggestions {
		fmt.Fprintf(&sb, "\n#### `%s` line %d\n\n%s\n", sug.FilePath, sug.LineNumber, strings.TrimSpace(sug.Comment))
	}
	return sb.String()
}

// formatFallbackComment is posted when the model produced no inline suggestions,
// so that a run never finishes without a trace beyond the review itself.
func formatFallbackComment(review *core.Review) string {
	var sb strings.Builder
	sb.WriteString("### 💬 No inline suggestions\n\n")
	sb.WriteString("The model did not return any line-specific suggestions for this change.\n")

	raw := strings.TrimSpace(review.InlineRaw)
	if raw == "" || raw == "[]" {
		raw = strings.TrimSpace(review.Text)
	}
	if raw != "" {
		sb.WriteString("\n<details>\n<summary>Model output</summary>\n\n")
		sb.WriteString(raw)
		sb.WriteString("\n\n</details>\n")
	}
	return sb.String()
}
