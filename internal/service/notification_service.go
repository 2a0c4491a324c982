package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/config"
	"github.com/spec-kit/quote-service/internal/events"
)

// NotificationService turns quote events into operator notifications: a structured log line,
// an e-mail stub and, when configured, a JSON webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *resty.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	timeout := cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     resty.New().SetTimeout(timeout),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventQuoteCreated, n.handleQuoteCreated)
	n.dispatcher.Subscribe(events.EventQuoteStatusChanged, n.handleQuoteStatusChanged)
	n.dispatcher.Subscribe(events.EventQuotePriceUpdated, n.handleQuotePriceUpdated)
	n.dispatcher.Subscribe(events.EventQuoteDocumentAttached, n.handleQuoteDocumentAttached)
}

func (n *NotificationService) handleQuoteCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("QuoteCreated", zap.String("quote_id", event.QuoteID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleQuoteStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("QuoteStatusChanged", zap.String("quote_id", event.QuoteID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleQuotePriceUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("QuotePriceUpdated", zap.String("quote_id", event.QuoteID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleQuoteDocumentAttached(ctx context.Context, event events.Event) error {
	n.logger.Info("QuoteDocumentAttached", zap.String("quote_id", event.QuoteID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("quote_id", event.QuoteID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event.Type, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s: http %d", event.Type, resp.StatusCode())
	}
	n.logger.Debug("webhook delivered", zap.String("quote_id", event.QuoteID), zap.String("event_type", string(event.Type)))
	return nil
}
