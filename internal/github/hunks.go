package github

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/sevigo/pr-warden/internal/gitutil"
)

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// ParseValidLinesFromPatch extracts all line numbers that can receive a comment in a GitHub PR.
// These are the lines present in the "new" side of the diff (the + side).
func ParseValidLinesFromPatch(patch string, logger *slog.Logger) map[int]struct{} {
	validLines := make(map[int]struct{})
	lines := strings.Split(patch, "\n")

	currentLine := -1

	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			matches := hunkHeaderRegex.FindStringSubmatch(line)
			if len(matches) >= 2 {
				start, err := strconv.Atoi(matches[1])
				if err != nil {
					// Skip malformed hunk; don't use corrupted line numbers
					if logger != nil {
						logger.Warn("skipped malformed hunk header", "line", line, "error", err)
					}
					currentLine = -1
					continue
				}
				currentLine = start
			}
			continue
		}

		if currentLine == -1 {
			continue
		}

		// In a unified diff:
		// ' ' (space) is an unchanged line
		// '+' is an added line
		// '-' is a removed line (doesn't increment new line counter)
		switch {
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, " "):
			validLines[currentLine] = struct{}{}
			currentLine++
		case strings.HasPrefix(line, "-"):
			// removal line exists in previous version, not the new one we are commenting on
			continue
		case line == "":
			// empty line usually at end of hunk
			continue
		}
	}

	return validLines
}

// ParseValidLinesFromDiff maps every file of a multi-file unified diff to the
// new-side line numbers that can receive a review comment. An unparseable
// diff yields an empty map.
func ParseValidLinesFromDiff(diff string, logger *slog.Logger) map[string]map[int]struct{} {
	valid := make(map[string]map[int]struct{})
	if i := strings.Index(diff, gitutil.OmittedNote); i >= 0 {
		diff = diff[:i+1]
	}
	fds, err := godiff.ParseMultiFileDiff([]byte(diff))
	if err != nil {
		if logger != nil {
			logger.Warn("could not parse diff for line anchors", "error", err)
		}
		return valid
	}

	for _, fd := range fds {
		path := gitutil.FilePath(fd)
		if path == "" || len(fd.Hunks) == 0 {
			continue
		}
		hunks, err := godiff.PrintHunks(fd.Hunks)
		if err != nil {
			if logger != nil {
				logger.Warn("could not print hunks", "path", path, "error", err)
			}
			continue
		}
		lines := ParseValidLinesFromPatch(string(hunks), logger)
		if len(lines) > 0 {
			valid[path] = lines
		}
	}
	return valid
}
