package core

import "strings"

// Label is a pull request label the model may suggest.
type Label string

const (
	LabelBug      Label = "bug"
	LabelFeature  Label = "feature"
	LabelRefactor Label = "refactor"
	LabelDocs     Label = "docs"
	LabelTest     Label = "test"
	LabelChore    Label = "chore"
)

// Labels is the closed set of labels that may be applied to a pull request.
var Labels = []Label{LabelBug, LabelFeature, LabelRefactor, LabelDocs, LabelTest, LabelChore}

// ParseLabel matches s against the known labels, ignoring case and surrounding space.
func ParseLabel(s string) (Label, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Labels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Suggestion is a review remark anchored to a file and line of the new code.
type Suggestion struct {
	FilePath   string `json:"file"`
	LineNumber int    `json:"line"`
	Comment    string `json:"comment"`
}

// Review is everything produced for one pull request before it is published.
type Review struct {
	// Text is the model's full review in markdown, posted verbatim.
	Text string
	// Label is empty when the model suggested none or an unknown one.
	Label       Label
	Suggestions []Suggestion
	// InlineRaw is the unparsed output of the inline suggestion call.
	InlineRaw string
	// Diff is the diff that was sent to the model.
	Diff string
}
