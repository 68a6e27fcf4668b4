package github_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/mocks"
)

const testDiff = "diff --git a/index.js b/index.js\n" +
	"--- a/index.js\n" +
	"+++ b/index.js\n" +
	"@@ -1,2 +1,3 @@\n" +
	" const a = 1;\n" +
	"+console.log('x')\n" +
	" module.exports = a;\n"

func newRequest() *core.ReviewRequest {
	return &core.ReviewRequest{RepoOwner: "sevigo", RepoName: "demo", PRNumber: 7}
}

func pullRequest(sha string) *gogithub.PullRequest {
	return &gogithub.PullRequest{Head: &gogithub.PullRequestBranch{SHA: gogithub.Ptr(sha)}}
}

func newPublisher(client github.Client) *github.Publisher {
	return github.NewPublisher(github.NewStaticClientFactory(client, "token"), time.Second, slog.New(slog.DiscardHandler))
}

func TestPublish_ZeroSuggestionsPostsFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	review := &core.Review{Text: "review text", Label: core.LabelChore, InlineRaw: "No issues found.", Diff: testDiff}

	gomock.InOrder(
		client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(nil),
		client.EXPECT().AddLabels(gomock.Any(), "sevigo", "demo", 7, []string{"chore"}).Return(nil),
		client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).
			Do(func(_ context.Context, _, _ string, _ int, body string) {
				assert.Contains(t, body, "No issues found.")
			}).Return(nil),
	)

	require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
}

func TestPublish_RejectedInlineCommentIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	review := &core.Review{
		Text:        "review text",
		Suggestions: []core.Suggestion{{FilePath: "index.js", LineNumber: 2, Comment: "Remove debug logging."}},
		Diff:        testDiff,
	}

	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "sevigo", "demo", 7).Return(pullRequest("abc123"), nil)
	client.EXPECT().CreateLineComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, c github.LineComment) error {
			assert.Equal(t, "abc123", c.CommitID)
			assert.Equal(t, "index.js", c.Path)
			assert.Equal(t, 2, c.Line)
			assert.Equal(t, github.SideRight, c.Side)
			assert.Contains(t, c.Body, "Remove debug logging.")
			return errors.New("422 Unprocessable Entity")
		})

	require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
}

func TestPublish_OffDiffSuggestionsAreCollected(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	review := &core.Review{
		Text: "review text",
		Suggestions: []core.Suggestion{
			{FilePath: "index.js", LineNumber: 2, Comment: "on diff"},
			{FilePath: "index.js", LineNumber: 40, Comment: "far away"},
		},
		Diff: testDiff,
	}

	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "sevigo", "demo", 7).Return(pullRequest("abc123"), nil)
	client.EXPECT().CreateLineComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).Return(nil).Times(1)
	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).
		Do(func(_ context.Context, _, _ string, _ int, body string) {
			assert.Contains(t, body, "far away")
			assert.NotContains(t, body, "on diff")
		}).Return(nil)

	require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
}

func TestPublish_LabelFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	review := &core.Review{Text: "review text", Label: core.LabelBug}

	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(nil)
	client.EXPECT().AddLabels(gomock.Any(), "sevigo", "demo", 7, []string{"bug"}).Return(errors.New("forbidden"))
	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).Return(nil)

	require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
}

func TestPublish_PrimaryCommentFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(errors.New("boom"))

	err := newPublisher(client).Publish(context.Background(), newRequest(), &core.Review{Text: "review text", Label: core.LabelBug})
	require.Error(t, err)
}

func TestPublish_ZeroSuggestionsSkipHeadLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().GetPullRequest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).Return(nil).Times(2)

	review := &core.Review{Text: "review text", InlineRaw: "[]"}
	require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
}

func TestPublish_HeadSHAFailureMovesSuggestionsToComment(t *testing.T) {
	tests := []struct {
		name string
		pr   *gogithub.PullRequest
		err  error
	}{
		{"lookup fails", nil, errors.New("502 bad gateway")},
		{"empty head", pullRequest(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockClient(ctrl)

			client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(nil)
			client.EXPECT().GetPullRequest(gomock.Any(), "sevigo", "demo", 7).Return(tt.pr, tt.err)
			client.EXPECT().CreateLineComment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).
				Do(func(_ context.Context, _, _ string, _ int, body string) {
					assert.Contains(t, body, "Remove debug logging.")
				}).Return(nil)

			review := &core.Review{
				Text:        "review text",
				Suggestions: []core.Suggestion{{FilePath: "index.js", LineNumber: 2, Comment: "Remove debug logging."}},
				Diff:        testDiff,
			}
			require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
		})
	}
}

func TestPublish_SuggestionForFileOutsideDiffIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").Return(nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "sevigo", "demo", 7).Return(pullRequest("abc123"), nil)
	client.EXPECT().CreateLineComment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, gomock.Any()).
		Do(func(_ context.Context, _, _ string, _ int, body string) {
			assert.Contains(t, body, "README.md")
			assert.Contains(t, body, "Document the flag.")
		}).Return(nil)

	review := &core.Review{
		Text:        "review text",
		Suggestions: []core.Suggestion{{FilePath: "README.md", LineNumber: 3, Comment: "Document the flag."}},
		Diff:        testDiff,
	}
	require.NoError(t, newPublisher(client).Publish(context.Background(), newRequest(), review))
}

func TestPublish_MissingIdentification(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	err := newPublisher(client).Publish(context.Background(), &core.ReviewRequest{RepoOwner: "sevigo"}, &core.Review{Text: "x"})
	assert.ErrorIs(t, err, core.ErrMissingIdentification)
}

func TestPublish_TimeoutIsTyped(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().CreateComment(gomock.Any(), "sevigo", "demo", 7, "review text").
		DoAndReturn(func(ctx context.Context, _, _ string, _ int, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		})

	p := github.NewPublisher(github.NewStaticClientFactory(client, ""), 10*time.Millisecond, slog.New(slog.DiscardHandler))
	err := p.Publish(context.Background(), newRequest(), &core.Review{Text: "review text"})
	assert.ErrorIs(t, err, core.ErrTimeout)
}
