package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
)

func approvedLead() *model.Lead {
	return &model.Lead{
		ID:    "lead-1",
		Name:  "Jordan Smith",
		Email: "jordan@example.com",
		Result: &model.PreApprovalResult{
			Status:           model.StatusApproved,
			MaxPurchasePrice: 324_000,
			InterestRate:     "6.50%",
		},
	}
}

func TestNotifyPreApproval_PostsEvent(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewNotifier(config.WebhookConfig{URL: srv.URL, TimeoutSecs: 5})
	require.NoError(t, n.NotifyPreApproval(context.Background(), approvedLead()))

	assert.Equal(t, "pre_approval.completed", received.EventType)
	assert.Equal(t, "lead-1", received.LeadID)
	require.NotNil(t, received.Result)
	assert.Equal(t, model.StatusApproved, received.Result.Status)
}

func TestNotifyPreApproval_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(config.WebhookConfig{URL: srv.URL})
	err := n.NotifyPreApproval(context.Background(), approvedLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestNotifyPreApproval_DisabledIsNoop(t *testing.T) {
	n := NewNotifier(config.WebhookConfig{})
	assert.False(t, n.Enabled())
	assert.NoError(t, n.NotifyPreApproval(context.Background(), approvedLead()))
}
