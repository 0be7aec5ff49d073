// Package notify delivers completed pre-approval results to an external
// webhook, typically a CRM intake endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
)

// Event is the payload posted to the webhook for each completed
// pre-approval.
type Event struct {
	EventType string                   `json:"event_type"`
	LeadID    string                   `json:"lead_id,omitempty"`
	Name      string                   `json:"name,omitempty"`
	Email     string                   `json:"email,omitempty"`
	Result    *model.PreApprovalResult `json:"result"`
	Timestamp time.Time                `json:"timestamp"`
}

// Notifier posts pre-approval events to a configured webhook URL.
// A Notifier with an empty URL drops every event silently.
type Notifier struct {
	cfg    config.WebhookConfig
	client *http.Client
}

// NewNotifier creates a Notifier with the given webhook config.
func NewNotifier(cfg config.WebhookConfig) *Notifier {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.cfg.URL != ""
}

// NotifyPreApproval posts the lead's result to the webhook.
func (n *Notifier) NotifyPreApproval(ctx context.Context, lead *model.Lead) error {
	if !n.Enabled() {
		return nil
	}

	evt := Event{
		EventType: "pre_approval.completed",
		LeadID:    lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Result:    lead.Result,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return eris.Wrap(err, "notify: marshal event")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "notify: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "notify: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}

	zap.L().Info("notify: webhook delivered",
		zap.String("lead_id", lead.ID),
		zap.String("status", string(lead.Result.Status)),
	)
	return nil
}
