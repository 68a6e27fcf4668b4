// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// ReviewRequest identifies the pull request a review is published to.
// Owner, name and number are required before anything is posted; the head SHA
// is resolved from GitHub when it is not known up front.
type ReviewRequest struct {
	RepoOwner    string
	RepoName     string
	RepoFullName string
	CloneURL     string

	PRNumber int
	HeadSHA  string
	BaseSHA  string

	InstallationID int64
}

// Validate reports whether the request carries enough identification to publish.
func (r *ReviewRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: request is nil", ErrMissingIdentification)
	}
	if r.RepoOwner == "" {
		return fmt.Errorf("%w: repository owner is empty", ErrMissingIdentification)
	}
	if r.RepoName == "" {
		return fmt.Errorf("%w: repository name is empty", ErrMissingIdentification)
	}
	if r.PRNumber <= 0 {
		return fmt.Errorf("%w: pull request number must be positive, got %d", ErrMissingIdentification, r.PRNumber)
	}
	return nil
}

// FullName returns "owner/name", preferring the value reported by GitHub.
func (r *ReviewRequest) FullName() string {
	if r.RepoFullName != "" {
		return r.RepoFullName
	}
	return r.RepoOwner + "/" + r.RepoName
}

var reviewableActions = map[string]bool{
	"opened":           true,
	"reopened":         true,
	"synchronize":      true,
	"ready_for_review": true,
}

// EventFromPullRequest converts a pull_request webhook into a ReviewRequest.
// Draft pull requests and actions that do not change the code are rejected.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewRequest, error) {
	if !reviewableActions[event.GetAction()] {
		return nil, fmt.Errorf("pull request action %q does not trigger a review", event.GetAction())
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, fmt.Errorf("pull request is missing from the event")
	}
	if pr.GetDraft() {
		return nil, fmt.Errorf("pull request #%d is a draft", pr.GetNumber())
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	if event.GetInstallation().GetID() == 0 {
		return nil, fmt.Errorf("installation ID is missing from the event")
	}

	req := &ReviewRequest{
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		CloneURL:       repo.GetCloneURL(),
		PRNumber:       pr.GetNumber(),
		HeadSHA:        pr.GetHead().GetSHA(),
		BaseSHA:        pr.GetBase().GetSHA(),
		InstallationID: event.GetInstallation().GetID(),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// EventFromIssueComment transforms a "/review" comment on a pull request into a
// ReviewRequest. The payload carries no commit information, so HeadSHA and
// BaseSHA are left for the job to resolve.
func EventFromIssueComment(event *github.IssueCommentEvent) (*ReviewRequest, error) {
	if event.GetAction() != "" && event.GetAction() != "created" {
		return nil, fmt.Errorf("comment action %q is ignored", event.GetAction())
	}

	if event.GetIssue() == nil || !event.GetIssue().IsPullRequest() {
		return nil, fmt.Errorf("comment is not on a pull request")
	}

	if !strings.EqualFold(strings.TrimSpace(event.GetComment().GetBody()), "/review") {
		return nil, fmt.Errorf("comment is not a review command")
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	if event.GetInstallation().GetID() == 0 {
		return nil, fmt.Errorf("installation ID is missing from the event")
	}

	req := &ReviewRequest{
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		CloneURL:       repo.GetCloneURL(),
		PRNumber:       event.GetIssue().GetNumber(),
		InstallationID: event.GetInstallation().GetID(),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
