package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/events"
	"github.com/spec-kit/quote-service/internal/mock"
	"github.com/spec-kit/quote-service/internal/repository"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

type quoteFixture struct {
	quotes   *mock.MockQuoteRepository
	users    *mock.MockUserRepository
	events   []events.Event
	svc      *QuoteService
	strictOn bool
}

func newQuoteFixture(t *testing.T, strict bool) *quoteFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &quoteFixture{
		quotes:   mock.NewMockQuoteRepository(ctrl),
		users:    mock.NewMockUserRepository(ctrl),
		strictOn: strict,
	}
	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		f.events = append(f.events, e)
		return nil
	}
	dispatcher.Subscribe(events.EventQuoteCreated, record)
	dispatcher.Subscribe(events.EventQuoteStatusChanged, record)
	dispatcher.Subscribe(events.EventQuotePriceUpdated, record)
	dispatcher.Subscribe(events.EventQuoteDocumentAttached, record)

	f.svc = NewQuoteService(QuoteDependencies{
		QuoteRepo:         f.quotes,
		UserRepo:          f.users,
		Dispatcher:        dispatcher,
		StrictTransitions: strict,
	})
	return f
}

func validCreateInput() CreateQuoteInput {
	size := int64(1024)
	return CreateQuoteInput{
		PartName: " Bracket ",
		Service:  domain.ServiceCNCMachining,
		Quantity: 10,
		Files: []domain.FileRef{{
			FileName: "part.STEP",
			FilePath: "uploads/" + uuid.NewString(),
			FileSize: &size,
		}},
	}
}

func TestQuoteService_CreateQuote(t *testing.T) {
	t.Run("persists quote, files and initial history", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		input := validCreateInput()

		f.quotes.EXPECT().CreateWithFiles(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q *domain.Quote, files []domain.QuoteFile, initial *domain.QuoteStatusHistory) error {
				assert.Equal(t, "user-1", q.UserID)
				assert.Equal(t, "Bracket", q.PartName)
				assert.Equal(t, domain.QuoteStatusRequested, q.Status)
				require.Len(t, files, 1)
				assert.Equal(t, q.ID, files[0].QuoteID)
				assert.Equal(t, "step", files[0].FileType)
				assert.Equal(t, q.ID, initial.QuoteID)
				assert.Equal(t, domain.QuoteStatusRequested, initial.Status)
				return nil
			})

		got, err := f.svc.CreateQuote(context.Background(), "user-1", input)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusRequested, got.Status)
		assert.Len(t, got.Files, 1)
		assert.Len(t, got.StatusHistory, 1)

		require.Len(t, f.events, 1)
		assert.Equal(t, events.EventQuoteCreated, f.events[0].Type)
		assert.NotEmpty(t, f.events[0].ID)
	})

	t.Run("lists every offending field", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		bad := domain.Material("unobtainium")
		negative := decimal.NewFromInt(-5)
		input := CreateQuoteInput{
			Service:     "teleportation",
			Material:    &bad,
			Quantity:    0,
			FinishTypes: []domain.FinishType{"glitter"},
			TargetPrice: &negative,
		}

		_, err := f.svc.CreateQuote(context.Background(), "user-1", input)
		require.Error(t, err)

		var de *apperrors.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, apperrors.CodeValidation, de.Code)
		for _, field := range []string{"partName", "quantity", "service", "material", "finishTypes[0]", "targetPrice", "files"} {
			assert.Contains(t, de.Details, field)
		}
		assert.Empty(t, f.events)
	})

	t.Run("quantity beyond the integer column is rejected", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		input := validCreateInput()
		input.Quantity = maxQuantity + 1

		_, err := f.svc.CreateQuote(context.Background(), "user-1", input)
		var de *apperrors.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, apperrors.CodeValidation, de.Code)
		assert.Contains(t, de.Details, "quantity")
	})

	t.Run("repeated finish types are stored once", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		input := validCreateInput()
		input.FinishTypes = []domain.FinishType{domain.FinishAnodized, domain.FinishAnodized}

		f.quotes.EXPECT().CreateWithFiles(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q *domain.Quote, _ []domain.QuoteFile, _ *domain.QuoteStatusHistory) error {
				assert.Equal(t, []domain.FinishType{domain.FinishAnodized}, q.FinishTypes)
				return nil
			})

		got, err := f.svc.CreateQuote(context.Background(), "user-1", input)
		require.NoError(t, err)
		assert.Len(t, got.FinishTypes, 1)
	})

	t.Run("repository failure is returned and no event published", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		f.quotes.EXPECT().CreateWithFiles(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.CreateQuote(context.Background(), "user-1", validCreateInput())
		require.Error(t, err)
		assert.Empty(t, f.events)
	})
}

func TestQuoteService_GetQuote(t *testing.T) {
	id := uuid.NewString()

	t.Run("assembles files, history and owner", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		quote := &domain.Quote{ID: id, UserID: "user-1", Status: domain.QuoteStatusProvided}
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(quote, nil)
		f.quotes.EXPECT().FilesByQuoteIDs(gomock.Any(), []string{id}).Return(map[string][]domain.QuoteFile{
			id: {{ID: "f1", QuoteID: id, FileName: "a.step"}},
		}, nil)
		f.quotes.EXPECT().HistoryByQuoteIDs(gomock.Any(), []string{id}).Return(map[string][]domain.QuoteStatusHistory{
			id: {
				{ID: "h2", Status: domain.QuoteStatusProvided},
				{ID: "h1", Status: domain.QuoteStatusRequested},
			},
		}, nil)
		f.users.EXPECT().ProfilesByIDs(gomock.Any(), []string{"user-1"}).Return(map[string]domain.UserProfile{
			"user-1": {ID: "user-1", Email: "a@x.com"},
		}, nil)

		got, err := f.svc.GetQuote(context.Background(), id)
		require.NoError(t, err)
		assert.Len(t, got.Files, 1)
		require.Len(t, got.StatusHistory, 2)
		assert.Equal(t, got.Status, got.StatusHistory[0].Status)
		require.NotNil(t, got.User)
		assert.Equal(t, "a@x.com", got.User.Email)
	})

	t.Run("missing quote is not found", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(nil, repository.ErrNotFound)

		_, err := f.svc.GetQuote(context.Background(), id)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("malformed id is not found without a lookup", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		_, err := f.svc.GetQuote(context.Background(), "abc")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestQuoteService_ListAllQuotes(t *testing.T) {
	t.Run("applies default paging", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		f.quotes.EXPECT().List(gomock.Any(), domain.QuoteListFilter{Limit: defaultListLimit}).Return(nil, nil)

		got, err := f.svc.ListAllQuotes(context.Background(), domain.QuoteListFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		status := domain.QuoteStatus("lost")
		_, err := f.svc.ListAllQuotes(context.Background(), domain.QuoteListFilter{Status: &status})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	})
}

func TestQuoteService_UpdateStatus(t *testing.T) {
	id := uuid.NewString()

	t.Run("permissive mode allows skipping states", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Quote{ID: id, UserID: "u", Status: domain.QuoteStatusRequested}, nil)
		f.quotes.EXPECT().UpdateStatus(gomock.Any(), id, (*domain.QuoteStatus)(nil), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ *domain.QuoteStatus, entry *domain.QuoteStatusHistory) (*domain.Quote, error) {
				assert.Equal(t, domain.QuoteStatusShipped, entry.Status)
				require.NotNil(t, entry.Notes)
				assert.Equal(t, "tracking 42", *entry.Notes)
				return &domain.Quote{ID: id, UserID: "u", Status: entry.Status, UpdatedAt: time.Now()}, nil
			})

		notes := "  tracking 42 "
		got, err := f.svc.UpdateStatus(context.Background(), "admin", id, domain.QuoteStatusShipped, &notes)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusShipped, got.Status)

		require.Len(t, f.events, 1)
		payload, ok := f.events[0].Payload.(events.QuoteStatusChangedPayload)
		require.True(t, ok)
		assert.Equal(t, domain.QuoteStatusRequested, payload.OldStatus)
		assert.Equal(t, domain.QuoteStatusShipped, payload.NewStatus)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		_, err := f.svc.UpdateStatus(context.Background(), "admin", id, "cancelled", nil)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	})

	t.Run("missing quote is not found", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(nil, repository.ErrNotFound)

		_, err := f.svc.UpdateStatus(context.Background(), "admin", id, domain.QuoteStatusProvided, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("strict mode rejects skipping", func(t *testing.T) {
		f := newQuoteFixture(t, true)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Quote{ID: id, Status: domain.QuoteStatusRequested}, nil)

		_, err := f.svc.UpdateStatus(context.Background(), "admin", id, domain.QuoteStatusShipped, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("strict mode rejects staying in place", func(t *testing.T) {
		f := newQuoteFixture(t, true)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Quote{ID: id, Status: domain.QuoteStatusDelivered}, nil)

		_, err := f.svc.UpdateStatus(context.Background(), "admin", id, domain.QuoteStatusDelivered, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("strict mode passes the expected status", func(t *testing.T) {
		f := newQuoteFixture(t, true)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Quote{ID: id, Status: domain.QuoteStatusRequested}, nil)
		f.quotes.EXPECT().UpdateStatus(gomock.Any(), id, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, expected *domain.QuoteStatus, entry *domain.QuoteStatusHistory) (*domain.Quote, error) {
				require.NotNil(t, expected)
				assert.Equal(t, domain.QuoteStatusRequested, *expected)
				return &domain.Quote{ID: id, Status: entry.Status}, nil
			})

		got, err := f.svc.UpdateStatus(context.Background(), "admin", id, domain.QuoteStatusProvided, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusProvided, got.Status)
	})

	t.Run("concurrent change surfaces as conflict", func(t *testing.T) {
		f := newQuoteFixture(t, true)
		f.quotes.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Quote{ID: id, Status: domain.QuoteStatusRequested}, nil)
		f.quotes.EXPECT().UpdateStatus(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(nil, repository.ErrStatusConflict)

		_, err := f.svc.UpdateStatus(context.Background(), "admin", id, domain.QuoteStatusProvided, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
		assert.Empty(t, f.events)
	})
}

func TestQuoteService_UpdatePrice(t *testing.T) {
	id := uuid.NewString()

	cases := []struct {
		name  string
		price string
	}{
		{"zero", "0"},
		{"negative", "-1.00"},
		{"too many decimals", "12.345"},
		{"too many digits", "100000000"},
	}
	for _, tc := range cases {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			f := newQuoteFixture(t, false)
			_, err := f.svc.UpdatePrice(context.Background(), "admin", id, decimal.RequireFromString(tc.price))
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
		})
	}

	t.Run("stores price without touching status", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		price := decimal.RequireFromString("1250.50")
		f.quotes.EXPECT().UpdateFinalPrice(gomock.Any(), id, price).Return(&domain.Quote{
			ID: id, UserID: "u", Status: domain.QuoteStatusRequested, FinalPrice: decimal.NewNullDecimal(price),
		}, nil)

		got, err := f.svc.UpdatePrice(context.Background(), "admin", id, price)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusRequested, got.Status)
		assert.True(t, got.FinalPrice.Decimal.Equal(price))
		require.Len(t, f.events, 1)
		assert.Equal(t, events.EventQuotePriceUpdated, f.events[0].Type)
	})

	t.Run("missing quote is not found", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		f.quotes.EXPECT().UpdateFinalPrice(gomock.Any(), id, gomock.Any()).Return(nil, repository.ErrNotFound)

		_, err := f.svc.UpdatePrice(context.Background(), "admin", id, decimal.NewFromInt(10))
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestQuoteService_AttachQuoteDocument(t *testing.T) {
	id := uuid.NewString()
	f := newQuoteFixture(t, false)
	f.quotes.EXPECT().SetQuoteDocument(gomock.Any(), id, "uploads/doc").Return(&domain.Quote{ID: id, UserID: "u"}, nil)

	_, err := f.svc.AttachQuoteDocument(context.Background(), "admin", id, "uploads/doc")
	require.NoError(t, err)
	require.Len(t, f.events, 1)
	assert.Equal(t, events.EventQuoteDocumentAttached, f.events[0].Type)

	_, err = f.svc.AttachQuoteDocument(context.Background(), "admin", id, " ")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestFileTypeOf(t *testing.T) {
	assert.Equal(t, "step", fileTypeOf("Part.STEP"))
	assert.Equal(t, "gz", fileTypeOf("archive.tar.gz"))
	assert.Equal(t, "", fileTypeOf("README"))
	assert.Equal(t, "", fileTypeOf("trailing."))
}
