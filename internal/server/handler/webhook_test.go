package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
)

const secret = "s3cret"

type fakeDispatcher struct {
	reqs []*core.ReviewRequest
	err  error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req *core.ReviewRequest) error {
	if f.err != nil {
		return f.err
	}
	f.reqs = append(f.reqs, req)
	return nil
}

func (f *fakeDispatcher) Stop() {}

const pullRequestPayload = `{
  "action": "opened",
  "number": 12,
  "pull_request": {"number": 12, "draft": false, "head": {"sha": "abc"}, "base": {"sha": "def"}},
  "repository": {"name": "demo", "full_name": "sevigo/demo", "clone_url": "https://github.com/sevigo/demo.git", "owner": {"login": "sevigo"}},
  "installation": {"id": 99}
}`

func signedRequest(t *testing.T, eventType, body, key string) *http.Request {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(key))
	_, err := mac.Write([]byte(body))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-GitHub-Event", eventType)
	r.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	return r
}

func newHandler(d *fakeDispatcher) *WebhookHandler {
	return NewWebhookHandler(&config.Config{GitHubWebhookSecret: secret}, d, slog.New(slog.DiscardHandler))
}

func TestHandle_PullRequestIsDispatched(t *testing.T) {
	d := &fakeDispatcher{}
	w := httptest.NewRecorder()
	newHandler(d).Handle(w, signedRequest(t, "pull_request", pullRequestPayload, secret))

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, d.reqs, 1)
	assert.Equal(t, "sevigo", d.reqs[0].RepoOwner)
	assert.Equal(t, 12, d.reqs[0].PRNumber)
	assert.Equal(t, "abc", d.reqs[0].HeadSHA)
	assert.Equal(t, int64(99), d.reqs[0].InstallationID)
}

func TestHandle_BadSignature(t *testing.T) {
	d := &fakeDispatcher{}
	w := httptest.NewRecorder()
	newHandler(d).Handle(w, signedRequest(t, "pull_request", pullRequestPayload, "wrong"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, d.reqs)
}

func TestHandle_IgnoredAction(t *testing.T) {
	d := &fakeDispatcher{}
	body := strings.Replace(pullRequestPayload, `"opened"`, `"closed"`, 1)
	w := httptest.NewRecorder()
	newHandler(d).Handle(w, signedRequest(t, "pull_request", body, secret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, d.reqs)
}

func TestHandle_QueueFull(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("job queue is full")}
	w := httptest.NewRecorder()
	newHandler(d).Handle(w, signedRequest(t, "pull_request", pullRequestPayload, secret))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandle_UnhandledEvent(t *testing.T) {
	d := &fakeDispatcher{}
	w := httptest.NewRecorder()
	newHandler(d).Handle(w, signedRequest(t, "star", `{"action":"created"}`, secret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not handled")
}
