// Package handler provides HTTP handlers for the pr-warden webhook server.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
)

// WebhookHandler processes incoming webhooks from GitHub.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes GitHub webhook requests.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(h.cfg.GitHubWebhookSecret))
	if err != nil {
		h.logger.Error("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	var (
		req       *core.ReviewRequest
		ignoreErr error
	)
	switch e := event.(type) {
	case *github.PullRequestEvent:
		req, ignoreErr = core.EventFromPullRequest(e)
	case *github.IssueCommentEvent:
		req, ignoreErr = core.EventFromIssueComment(e)
	case *github.PingEvent:
		h.logger.Info("received ping", "hook_id", e.GetHookID())
		_, _ = fmt.Fprint(w, "pong")
		return
	default:
		h.logger.Debug("ignoring unhandled webhook event type", "type", github.WebHookType(r))
		_, _ = fmt.Fprint(w, "Event type not handled")
		return
	}
	if ignoreErr != nil {
		h.logger.Debug("ignoring event", "type", github.WebHookType(r), "reason", ignoreErr.Error())
		_, _ = fmt.Fprint(w, "Event ignored")
		return
	}

	h.dispatch(r.Context(), w, req)
}

func (h *WebhookHandler) dispatch(ctx context.Context, w http.ResponseWriter, req *core.ReviewRequest) {
	if err := h.dispatcher.Dispatch(ctx, req); err != nil {
		h.logger.Error("failed to dispatch review job", "error", err, "repo", req.FullName())
		http.Error(w, "Failed to start review job", http.StatusInternalServerError)
		return
	}

	h.logger.Info("review job dispatched successfully", "repo", req.FullName(), "pr", req.PRNumber)
	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "Review job accepted")
}
