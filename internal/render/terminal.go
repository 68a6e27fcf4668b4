// Package render prints reviews to the terminal instead of publishing them,
// which is what --dry-run uses.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/sevigo/pr-warden/internal/core"
)

const wordWrap = 100

// TerminalPublisher renders a review as styled markdown.
type TerminalPublisher struct {
	out    io.Writer
	styles styles
	// plain disables glamour, for non-interactive output.
	plain bool
}

// NewTerminalPublisher writes to out. When plain is set the markdown is printed as-is.
func NewTerminalPublisher(out io.Writer, plain bool) *TerminalPublisher {
	return &TerminalPublisher{out: out, styles: newStyles(), plain: plain}
}

// Publish writes the review, its label and every suggestion to the terminal.
func (p *TerminalPublisher) Publish(_ context.Context, req *core.ReviewRequest, review *core.Review) error {
	var b strings.Builder

	title := "PR Warden review"
	if req != nil && req.RepoOwner != "" && req.PRNumber > 0 {
		title = fmt.Sprintf("PR Warden review · %s#%d", req.FullName(), req.PRNumber)
	}
	b.WriteString(p.styles.header.Render(title))
	b.WriteString("\n")

	if review.Label != "" {
		b.WriteString("Label: " + p.styles.label.Render(string(review.Label)) + "\n")
	} else {
		b.WriteString(p.styles.dim.Render("No label suggested") + "\n")
	}

	body, err := p.markdown(review.Text)
	if err != nil {
		return err
	}
	b.WriteString(body)

	b.WriteString(p.styles.section.Render(fmt.Sprintf("Inline suggestions (%d)", len(review.Suggestions))))
	b.WriteString("\n")
	if len(review.Suggestions) == 0 {
		b.WriteString(p.styles.dim.Render("The model did not return any line-specific suggestions.") + "\n")
	}
	for _, s := range review.Suggestions {
		loc := p.styles.location.Render(fmt.Sprintf("%s:%d", s.FilePath, s.LineNumber))
		b.WriteString(p.styles.suggestion.Render(loc+"\n"+strings.TrimSpace(s.Comment)) + "\n")
	}

	_, err = io.WriteString(p.out, b.String())
	return err
}

func (p *TerminalPublisher) markdown(text string) (string, error) {
	if p.plain {
		return text + "\n", nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render review: %w", err)
	}
	return out, nil
}
