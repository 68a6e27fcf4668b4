package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/pr-warden/internal/gitutil"
)

func TestParseValidLinesFromPatch(t *testing.T) {
	patch := "@@ -1,3 +1,4 @@\n line1\n-old\n+new\n+added\n line3\n@@ -10 +11,2 @@\n ctx\n+tail\n"
	got := ParseValidLinesFromPatch(patch, nil)

	for _, l := range []int{1, 2, 3, 4, 11, 12} {
		assert.Contains(t, got, l)
	}
	assert.NotContains(t, got, 5)
	assert.NotContains(t, got, 10)
}

func TestParseValidLinesFromDiff(t *testing.T) {
	diff := "diff --git a/index.js b/index.js\n" +
		"index 1111111..2222222 100644\n" +
		"--- a/index.js\n" +
		"+++ b/index.js\n" +
		"@@ -1,2 +1,3 @@\n" +
		" const a = 1;\n" +
		"+console.log('x')\n" +
		" module.exports = a;\n" +
		"diff --git a/old.txt b/old.txt\n" +
		"deleted file mode 100644\n" +
		"index 3333333..0000000\n" +
		"--- a/old.txt\n" +
		"+++ /dev/null\n" +
		"@@ -1 +0,0 @@\n" +
		"-gone\n"

	got := ParseValidLinesFromDiff(diff, nil)
	assert.Len(t, got, 1)
	assert.Contains(t, got["index.js"], 2)
	assert.Contains(t, got["index.js"], 3)
	assert.NotContains(t, got["index.js"], 4)
}

func TestParseValidLinesFromDiff_IgnoresOmittedNote(t *testing.T) {
	diff := "diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n@@ -0,0 +1 @@\n+package a\n" +
		gitutil.OmittedNote + "# - go.sum (+1/-0 lines, omitted)\n"

	got := ParseValidLinesFromDiff(diff, nil)
	assert.Contains(t, got["a.go"], 1)
}

func TestParseValidLinesFromDiff_NotADiff(t *testing.T) {
	assert.Empty(t, ParseValidLinesFromDiff("+console.log('x')", nil))
}
