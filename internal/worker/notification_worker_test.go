package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/config"
	"github.com/spec-kit/quote-service/internal/events"
)

func TestStartNotificationWorker_DeliversWebhook(t *testing.T) {
	var received atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		received.Store(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	svc := StartNotificationWorker(dispatcher, config.NotificationConfig{WebhookURL: srv.URL}, zap.NewNop())
	require.NotNil(t, svc)

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:      "e1",
		Type:    events.EventQuoteStatusChanged,
		QuoteID: "q1",
		Payload: events.QuoteStatusChangedPayload{OldStatus: "quote_requested", NewStatus: "quote_provided"},
	})
	require.NoError(t, err)

	body, ok := received.Load().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "quote_status_changed", body["type"])
	assert.Equal(t, "q1", body["quoteId"])
}

func TestStartNotificationWorker_WebhookFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	StartNotificationWorker(dispatcher, config.NotificationConfig{WebhookURL: srv.URL}, zap.NewNop())

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventQuotePriceUpdated, QuoteID: "q1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 502")
}

func TestStartNotificationWorker_NilDispatcher(t *testing.T) {
	assert.Nil(t, StartNotificationWorker(nil, config.NotificationConfig{}, zap.NewNop()))
}
