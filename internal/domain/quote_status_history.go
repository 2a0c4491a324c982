package domain

import "time"

// QuoteStatusHistory is an immutable audit trail entry.
type QuoteStatusHistory struct {
	ID        string
	QuoteID   string
	Status    QuoteStatus
	Notes     *string
	CreatedAt time.Time
}
