package gitutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFileDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,2 +1,3 @@
 package main
+
+func main() {}
diff --git a/go.sum b/go.sum
index 3333333..4444444 100644
--- a/go.sum
+++ b/go.sum
@@ -1 +1,2 @@
 github.com/a/b v1.0.0 h1:abc
+github.com/c/d v1.0.0 h1:def
`

func TestLimitDiff_WithinBudgetIsUnchanged(t *testing.T) {
	diff := "+console.log('x')"
	res := LimitDiff(diff, BudgetOptions{MaxBytes: 1000})
	assert.Equal(t, diff, res.Diff)
	assert.False(t, res.Truncated)
}

func TestLimitDiff_Exclude(t *testing.T) {
	res := LimitDiff(twoFileDiff, BudgetOptions{Exclude: []string{"go.sum"}})

	assert.Equal(t, []string{"go.sum"}, res.Excluded)
	assert.Contains(t, res.Diff, "+func main() {}")
	assert.NotContains(t, res.Diff, "github.com/c/d")
	assert.False(t, res.Truncated)
}

func TestLimitDiff_OmitsFilesBeyondBudget(t *testing.T) {
	firstSection := twoFileDiff[:strings.Index(twoFileDiff, "diff --git a/go.sum")]
	res := LimitDiff(twoFileDiff, BudgetOptions{MaxBytes: len(firstSection) + 10})

	require.True(t, res.Truncated)
	require.Len(t, res.Omitted, 1)
	assert.Equal(t, "go.sum (+1/-0 lines, omitted)", res.Omitted[0])
	assert.Contains(t, res.Diff, "+func main() {}")
	assert.Contains(t, res.Diff, "# - go.sum (+1/-0 lines, omitted)")
}

func TestLimitDiff_UnparseableInputIsCut(t *testing.T) {
	diff := strings.Repeat("é", 50)
	res := LimitDiff(diff, BudgetOptions{MaxBytes: 11})

	assert.True(t, res.Truncated)
	assert.True(t, strings.HasPrefix(res.Diff, strings.Repeat("é", 5)+"\n"))
	assert.Contains(t, res.Diff, "diff truncated")
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, MatchesAny("yarn.lock", []string{"*.lock"}))
	assert.True(t, MatchesAny("web/yarn.lock", []string{"**/*.lock"}))
	assert.True(t, MatchesAny("docs/readme.md", []string{"docs/*"}))
	assert.False(t, MatchesAny("main.go", []string{"*.lock", "docs/*"}))
	assert.False(t, MatchesAny("main.go", nil))
}
