package gitutil

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// OmittedNote introduces the list of files left out of a trimmed diff.
const OmittedNote = "\n# The following files were omitted to fit the review budget:\n"

// BudgetOptions controls how a diff is trimmed before it is sent to the model.
type BudgetOptions struct {
	// MaxBytes caps the diff size. Zero means unlimited.
	MaxBytes int
	// Exclude holds glob patterns matched against the new file path.
	Exclude []string
}

// BudgetResult is the trimmed diff with a record of what was left out.
type BudgetResult struct {
	Diff      string
	Excluded  []string
	Omitted   []string
	Truncated bool
}

// LimitDiff applies exclusions and the byte budget to a unified diff. Whole
// file sections are kept in order while they fit; the rest are listed in a
// trailing note. A diff that is within budget and has no exclusions is
// returned unchanged. Input that does not parse as a unified diff is cut at
// the byte cap.
func LimitDiff(diff string, opts BudgetOptions) *BudgetResult {
	overBudget := opts.MaxBytes > 0 && len(diff) > opts.MaxBytes
	if !overBudget && len(opts.Exclude) == 0 {
		return &BudgetResult{Diff: diff}
	}

	files, err := godiff.ParseMultiFileDiff([]byte(diff))
	if err != nil || len(files) == 0 {
		if !overBudget {
			return &BudgetResult{Diff: diff}
		}
		return &BudgetResult{Diff: cutAt(diff, opts.MaxBytes), Truncated: true}
	}

	res := &BudgetResult{}
	var kept bytes.Buffer
	for _, fd := range files {
		path := FilePath(fd)
		if MatchesAny(path, opts.Exclude) {
			res.Excluded = append(res.Excluded, path)
			continue
		}

		section, err := godiff.PrintFileDiff(fd)
		if err != nil {
			res.Omitted = append(res.Omitted, describe(fd))
			continue
		}
		if opts.MaxBytes > 0 && kept.Len()+len(section) > opts.MaxBytes {
			res.Omitted = append(res.Omitted, describe(fd))
			continue
		}
		kept.Write(section)
	}

	if len(res.Omitted) > 0 {
		res.Truncated = true
		kept.WriteString(OmittedNote)
		for _, o := range res.Omitted {
			kept.WriteString("# - " + o + "\n")
		}
	}
	res.Diff = kept.String()
	return res
}

// FilePath returns the path a file diff applies to, preferring the new name.
func FilePath(fd *godiff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "b/")
	return strings.TrimPrefix(name, "a/")
}

func describe(fd *godiff.FileDiff) string {
	stat := fd.Stat()
	return fmt.Sprintf("%s (+%d/-%d lines, omitted)", FilePath(fd), stat.Added+stat.Changed, stat.Deleted+stat.Changed)
}

// MatchesAny reports whether path matches any glob. A "**/" prefix also
// matches the base name, so "**/*.lock" excludes lock files at any depth.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			if matched, err := filepath.Match(clean, filepath.Base(path)); err == nil && matched {
				return true
			}
			if matched, err := filepath.Match(clean, path); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func cutAt(s string, max int) string {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (diff truncated at max-diff-bytes limit)\n"
}
