package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/events"
	"github.com/spec-kit/quote-service/internal/repository"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// QuoteService is the quote lifecycle engine: creation, state transitions, status history and
// pricing. Role checks happen at the HTTP boundary; callers here are already authorized.
type QuoteService struct {
	quotes     repository.QuoteRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	strict     bool
	logger     *zap.Logger
}

// QuoteDependencies bundles collaborators for the quote service.
type QuoteDependencies struct {
	QuoteRepo         repository.QuoteRepository
	UserRepo          repository.UserRepository
	Dispatcher        events.Dispatcher
	StrictTransitions bool
	Logger            *zap.Logger
}

// CreateQuoteInput describes quote creation payload. File paths and the technical drawing are
// storage keys already resolved by the upload boundary.
type CreateQuoteInput struct {
	PartName             string
	Service              domain.ManufacturingService
	Material             *domain.Material
	Quantity             int
	FinishTypes          []domain.FinishType
	QualityStandard      *domain.QualityStandard
	Notes                *string
	TechnicalDrawingPath *string
	Options              domain.QuoteOptions
	TargetPrice          *decimal.Decimal
	Files                []domain.FileRef
}

// NewQuoteService constructs the service.
func NewQuoteService(deps QuoteDependencies) *QuoteService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quotes:     deps.QuoteRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		strict:     deps.StrictTransitions,
		logger:     logger,
	}
}

// CreateQuote stores the quote, its files and the initial history entry atomically.
func (s *QuoteService) CreateQuote(ctx context.Context, ownerID string, input CreateQuoteInput) (*domain.QuoteWithFiles, error) {
	if err := validateCreateQuote(input); err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		ID:                   uuid.NewString(),
		UserID:               ownerID,
		PartName:             strings.TrimSpace(input.PartName),
		Service:              input.Service,
		Material:             input.Material,
		Quantity:             input.Quantity,
		FinishTypes:          uniqueFinishes(input.FinishTypes),
		QualityStandard:      input.QualityStandard,
		Notes:                trimmedOrNil(input.Notes),
		TechnicalDrawingPath: trimmedOrNil(input.TechnicalDrawingPath),
		Options:              input.Options,
		Status:               domain.QuoteStatusRequested,
	}
	if input.TargetPrice != nil {
		quote.TargetPrice = decimal.NewNullDecimal(*input.TargetPrice)
	}

	files := make([]domain.QuoteFile, 0, len(input.Files))
	for _, ref := range input.Files {
		name := strings.TrimSpace(ref.FileName)
		files = append(files, domain.QuoteFile{
			ID:       uuid.NewString(),
			QuoteID:  quote.ID,
			FileName: name,
			FilePath: ref.FilePath,
			FileSize: ref.FileSize,
			FileType: fileTypeOf(name),
		})
	}

	initial := &domain.QuoteStatusHistory{
		ID:      uuid.NewString(),
		QuoteID: quote.ID,
		Status:  domain.QuoteStatusRequested,
	}

	if err := s.quotes.CreateWithFiles(ctx, quote, files, initial); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventQuoteCreated,
		QuoteID: quote.ID,
		ActorID: ownerID,
		Payload: events.QuoteCreatedPayload{
			OwnerID:   ownerID,
			PartName:  quote.PartName,
			Service:   quote.Service,
			Quantity:  quote.Quantity,
			FileCount: len(files),
		},
	})

	return &domain.QuoteWithFiles{
		Quote:         *quote,
		Files:         files,
		StatusHistory: []domain.QuoteStatusHistory{*initial},
	}, nil
}

// GetQuote loads a quote with its files, history (newest first) and owner profile.
func (s *QuoteService) GetQuote(ctx context.Context, id string) (*domain.QuoteWithFiles, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("quote", map[string]any{"id": id})
	}
	quote, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, mapQuoteErr(err, id)
	}
	full, err := s.assemble(ctx, []domain.Quote{*quote})
	if err != nil {
		return nil, err
	}
	return &full[0], nil
}

// ListQuotesForUser returns the caller's quotes, newest first, without files or history.
func (s *QuoteService) ListQuotesForUser(ctx context.Context, userID string) ([]domain.Quote, error) {
	quotes, err := s.quotes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// ListAllQuotes returns every quote matching filter in the detail projection, newest first.
func (s *QuoteService) ListAllQuotes(ctx context.Context, filter domain.QuoteListFilter) ([]domain.QuoteWithFiles, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid filter", map[string]any{"status": fmt.Sprintf("unknown status %q", *filter.Status)})
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	quotes, err := s.quotes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return s.assemble(ctx, quotes)
}

// UpdateStatus moves a quote to status and appends a history entry in the same transaction.
func (s *QuoteService) UpdateStatus(ctx context.Context, actorID, id string, status domain.QuoteStatus, notes *string) (*domain.Quote, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": fmt.Sprintf("unknown status %q", status)})
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("quote", map[string]any{"id": id})
	}

	current, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, mapQuoteErr(err, id)
	}

	var expected *domain.QuoteStatus
	if s.strict {
		if err := checkTransition(current.Status, status); err != nil {
			return nil, err
		}
		from := current.Status
		expected = &from
	}

	entry := &domain.QuoteStatusHistory{
		ID:     uuid.NewString(),
		Status: status,
		Notes:  trimmedOrNil(notes),
	}
	updated, err := s.quotes.UpdateStatus(ctx, id, expected, entry)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewConflict("quote status changed concurrently", map[string]any{"from": current.Status, "to": status})
		}
		return nil, mapQuoteErr(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventQuoteStatusChanged,
		QuoteID: id,
		ActorID: actorID,
		Payload: events.QuoteStatusChangedPayload{
			OwnerID:   updated.UserID,
			OldStatus: current.Status,
			NewStatus: status,
			Notes:     entry.Notes,
		},
	})
	return updated, nil
}

// UpdatePrice sets the final price. It never touches status or history.
func (s *QuoteService) UpdatePrice(ctx context.Context, actorID, id string, price decimal.Decimal) (*domain.Quote, error) {
	if msg := checkPrice(price); msg != "" {
		return nil, apperrors.NewValidationError("invalid price", map[string]any{"finalPrice": msg})
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("quote", map[string]any{"id": id})
	}

	updated, err := s.quotes.UpdateFinalPrice(ctx, id, price)
	if err != nil {
		return nil, mapQuoteErr(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventQuotePriceUpdated,
		QuoteID: id,
		ActorID: actorID,
		Payload: events.QuotePriceUpdatedPayload{
			OwnerID:    updated.UserID,
			FinalPrice: price,
		},
	})
	return updated, nil
}

// AttachQuoteDocument records the admin-supplied quote document. No history entry is written.
func (s *QuoteService) AttachQuoteDocument(ctx context.Context, actorID, id, documentPath string) (*domain.Quote, error) {
	if strings.TrimSpace(documentPath) == "" {
		return nil, apperrors.NewValidationError("invalid document", map[string]any{"documentURL": "is required"})
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("quote", map[string]any{"id": id})
	}

	updated, err := s.quotes.SetQuoteDocument(ctx, id, documentPath)
	if err != nil {
		return nil, mapQuoteErr(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventQuoteDocumentAttached,
		QuoteID: id,
		ActorID: actorID,
		Payload: events.QuoteDocumentAttachedPayload{
			OwnerID:      updated.UserID,
			DocumentPath: documentPath,
		},
	})
	return updated, nil
}

// assemble batch-loads files, history and owner profiles for quotes.
func (s *QuoteService) assemble(ctx context.Context, quotes []domain.Quote) ([]domain.QuoteWithFiles, error) {
	result := make([]domain.QuoteWithFiles, 0, len(quotes))
	if len(quotes) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(quotes))
	ownerSet := make(map[string]struct{}, len(quotes))
	owners := make([]string, 0, len(quotes))
	for _, q := range quotes {
		ids = append(ids, q.ID)
		if _, seen := ownerSet[q.UserID]; !seen {
			ownerSet[q.UserID] = struct{}{}
			owners = append(owners, q.UserID)
		}
	}

	files, err := s.quotes.FilesByQuoteIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load quote files: %w", err)
	}
	history, err := s.quotes.HistoryByQuoteIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	profiles, err := s.users.ProfilesByIDs(ctx, owners)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}

	for _, q := range quotes {
		full := domain.QuoteWithFiles{
			Quote:         q,
			Files:         files[q.ID],
			StatusHistory: history[q.ID],
		}
		if full.Files == nil {
			full.Files = []domain.QuoteFile{}
		}
		if full.StatusHistory == nil {
			full.StatusHistory = []domain.QuoteStatusHistory{}
		}
		if profile, ok := profiles[q.UserID]; ok {
			p := profile
			full.User = &p
		}
		result = append(result, full)
	}
	return result, nil
}

// checkTransition enforces forward, adjacent-only moves.
func checkTransition(from, to domain.QuoteStatus) error {
	next, ok := from.Next()
	if ok && next == to {
		return nil
	}
	details := map[string]any{"from": from, "to": to}
	if ok {
		details["allowed"] = next
	}
	return apperrors.NewConflict("status transition not allowed", details)
}

func mapQuoteErr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("quote", map[string]any{"id": id})
	}
	return err
}

func (s *QuoteService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("quote_id", event.QuoteID),
			zap.Error(err))
	}
}

// uniqueFinishes drops repeated finish tags, keeping first-seen order.
func uniqueFinishes(finishes []domain.FinishType) []domain.FinishType {
	out := make([]domain.FinishType, 0, len(finishes))
	seen := make(map[domain.FinishType]struct{}, len(finishes))
	for _, f := range finishes {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
