package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPullRequestEvent(action string, draft bool) *github.PullRequestEvent {
	return &github.PullRequestEvent{
		Action: github.Ptr(action),
		PullRequest: &github.PullRequest{
			Number: github.Ptr(42),
			Draft:  github.Ptr(draft),
			Head:   &github.PullRequestBranch{SHA: github.Ptr("headsha")},
			Base:   &github.PullRequestBranch{SHA: github.Ptr("basesha")},
		},
		Repo: &github.Repository{
			Name:     github.Ptr("pr-warden"),
			FullName: github.Ptr("sevigo/pr-warden"),
			CloneURL: github.Ptr("https://github.com/sevigo/pr-warden.git"),
			Owner:    &github.User{Login: github.Ptr("sevigo")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(7))},
	}
}

func TestEventFromPullRequest(t *testing.T) {
	t.Run("opened pull request", func(t *testing.T) {
		req, err := EventFromPullRequest(newPullRequestEvent("opened", false))
		require.NoError(t, err)
		assert.Equal(t, "sevigo", req.RepoOwner)
		assert.Equal(t, "pr-warden", req.RepoName)
		assert.Equal(t, 42, req.PRNumber)
		assert.Equal(t, "headsha", req.HeadSHA)
		assert.Equal(t, "basesha", req.BaseSHA)
		assert.Equal(t, int64(7), req.InstallationID)
		assert.Equal(t, "sevigo/pr-warden", req.FullName())
	})

	t.Run("closed action is ignored", func(t *testing.T) {
		_, err := EventFromPullRequest(newPullRequestEvent("closed", false))
		assert.Error(t, err)
	})

	t.Run("draft is ignored", func(t *testing.T) {
		_, err := EventFromPullRequest(newPullRequestEvent("synchronize", true))
		assert.Error(t, err)
	})

	t.Run("missing installation", func(t *testing.T) {
		event := newPullRequestEvent("opened", false)
		event.Installation = nil
		_, err := EventFromPullRequest(event)
		assert.Error(t, err)
	})
}

func TestEventFromIssueComment(t *testing.T) {
	base := func(body string, isPR bool) *github.IssueCommentEvent {
		issue := &github.Issue{Number: github.Ptr(9)}
		if isPR {
			issue.PullRequestLinks = &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/repos/o/r/pulls/9")}
		}
		return &github.IssueCommentEvent{
			Action:  github.Ptr("created"),
			Issue:   issue,
			Comment: &github.IssueComment{Body: github.Ptr(body)},
			Repo: &github.Repository{
				Name:  github.Ptr("r"),
				Owner: &github.User{Login: github.Ptr("o")},
			},
			Installation: &github.Installation{ID: github.Ptr(int64(1))},
		}
	}

	req, err := EventFromIssueComment(base("  /REVIEW ", true))
	require.NoError(t, err)
	assert.Equal(t, 9, req.PRNumber)
	assert.Empty(t, req.HeadSHA)
	assert.Equal(t, "o/r", req.FullName())

	_, err = EventFromIssueComment(base("/review", false))
	assert.Error(t, err, "comments on plain issues are ignored")

	_, err = EventFromIssueComment(base("looks good", true))
	assert.Error(t, err)

	_, err = EventFromIssueComment(&github.IssueCommentEvent{})
	assert.Error(t, err)
}

func TestReviewRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     *ReviewRequest
		wantErr bool
	}{
		{name: "complete", req: &ReviewRequest{RepoOwner: "o", RepoName: "r", PRNumber: 1}},
		{name: "nil", req: nil, wantErr: true},
		{name: "no owner", req: &ReviewRequest{RepoName: "r", PRNumber: 1}, wantErr: true},
		{name: "no repo", req: &ReviewRequest{RepoOwner: "o", PRNumber: 1}, wantErr: true},
		{name: "zero pr", req: &ReviewRequest{RepoOwner: "o", RepoName: "r"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingIdentification)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	for _, l := range Labels {
		got, ok := ParseLabel(string(l))
		assert.True(t, ok)
		assert.Equal(t, l, got)
	}

	got, ok := ParseLabel(" Bug ")
	assert.True(t, ok)
	assert.Equal(t, LabelBug, got)

	_, ok = ParseLabel("security")
	assert.False(t, ok)
	_, ok = ParseLabel("")
	assert.False(t, ok)
}
