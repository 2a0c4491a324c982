package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/quote-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQuoteCreated          EventType = "quote_created"
	EventQuoteStatusChanged    EventType = "quote_status_changed"
	EventQuotePriceUpdated     EventType = "quote_price_updated"
	EventQuoteDocumentAttached EventType = "quote_document_attached"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	QuoteID   string    `json:"quoteId"`
	ActorID   string    `json:"actorId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// QuoteCreatedPayload payload.
type QuoteCreatedPayload struct {
	OwnerID   string                      `json:"ownerId"`
	PartName  string                      `json:"partName"`
	Service   domain.ManufacturingService `json:"service"`
	Quantity  int                         `json:"quantity"`
	FileCount int                         `json:"fileCount"`
}

// QuoteStatusChangedPayload payload.
type QuoteStatusChangedPayload struct {
	OwnerID   string             `json:"ownerId"`
	OldStatus domain.QuoteStatus `json:"oldStatus"`
	NewStatus domain.QuoteStatus `json:"newStatus"`
	Notes     *string            `json:"notes,omitempty"`
}

// QuotePriceUpdatedPayload payload.
type QuotePriceUpdatedPayload struct {
	OwnerID    string          `json:"ownerId"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// QuoteDocumentAttachedPayload payload.
type QuoteDocumentAttachedPayload struct {
	OwnerID      string `json:"ownerId"`
	DocumentPath string `json:"documentPath"`
}
