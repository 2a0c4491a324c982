package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/quote-service/internal/domain"
)

func quoteRows(status domain.QuoteStatus, finalPrice any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(quoteColumns).AddRow(
		"q1", "u1", "Bracket", "cnc_machining", "aluminum_6061", 10, "{anodized,brushed}",
		nil, "deburr all edges", nil,
		"{}", "{3.1}", "{}", "{}", "{}", "{}",
		nil, finalPrice, "99.50", string(status), nil,
		now, now,
	)
}

func TestQuoteRepository_CreateWithFiles_Commit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	now := time.Now()

	quote := &domain.Quote{
		ID: "q1", UserID: "u1", PartName: "Bracket", Service: domain.ServiceCNCMachining,
		Quantity: 10, Status: domain.QuoteStatusRequested,
	}
	size := int64(1024)
	files := []domain.QuoteFile{
		{ID: "f1", QuoteID: "q1", FileName: "part.step", FilePath: "uploads/abc", FileSize: &size, FileType: "step"},
		{ID: "f2", QuoteID: "q1", FileName: "drawing.pdf", FilePath: "uploads/def", FileType: "pdf"},
	}
	initial := &domain.QuoteStatusHistory{ID: "h1", QuoteID: "q1", Status: domain.QuoteStatusRequested}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO quotes").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO quote_files").
		WithArgs("f1", "q1", "part.step", "uploads/abc", int64(1024), "step").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery("INSERT INTO quote_files").
		WithArgs("f2", "q1", "drawing.pdf", "uploads/def", nil, "pdf").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery("INSERT INTO quote_status_history").
		WithArgs("h1", "q1", "quote_requested", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateWithFiles(context.Background(), quote, files, initial))
	assert.Equal(t, now, quote.CreatedAt)
	assert.Equal(t, now, initial.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_CreateWithFiles_RollsBackOnFileFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	now := time.Now()

	quote := &domain.Quote{ID: "q1", UserID: "u1", Service: domain.ServiceCNCMachining, Quantity: 1, Status: domain.QuoteStatusRequested}
	files := []domain.QuoteFile{{ID: "f1", QuoteID: "q1", FileName: "a.step", FilePath: "uploads/a"}}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO quotes").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO quote_files").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CreateWithFiles(context.Background(), quote, files, &domain.QuoteStatusHistory{ID: "h1", QuoteID: "q1", Status: domain.QuoteStatusRequested})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert quote file")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM quotes WHERE id = \\$1").
		WithArgs("q1").
		WillReturnRows(quoteRows(domain.QuoteStatusProvided, "1250.00"))

	quote, err := repo.GetByID(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusProvided, quote.Status)
	require.NotNil(t, quote.Material)
	assert.Equal(t, domain.MaterialAluminum6061, *quote.Material)
	assert.Nil(t, quote.QualityStandard)
	assert.Equal(t, []domain.FinishType{domain.FinishAnodized, domain.FinishBrushed}, quote.FinishTypes)
	assert.Equal(t, []string{"3.1"}, quote.Options.MaterialCertificates)
	assert.True(t, quote.FinalPrice.Valid)
	assert.True(t, quote.FinalPrice.Decimal.Equal(decimal.RequireFromString("1250")))
	assert.False(t, quote.EstimatedPrice.Valid)
}

func TestQuoteRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM quotes").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "q1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuoteRepository_List_WithStatusFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	status := domain.QuoteStatusShipped

	mock.ExpectQuery("SELECT (.+) FROM quotes WHERE status = \\$1 ORDER BY created_at DESC, id DESC LIMIT 50 OFFSET 10").
		WithArgs("shipped").
		WillReturnRows(quoteRows(domain.QuoteStatusShipped, nil))

	quotes, err := repo.List(context.Background(), domain.QuoteListFilter{Status: &status, Limit: 50, Offset: 10})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, domain.QuoteStatusShipped, quotes[0].Status)
}

func TestQuoteRepository_ListByUser_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM quotes WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(quoteColumns))

	quotes, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestQuoteRepository_UpdateStatus_AppendsHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	now := time.Now()
	notes := "price attached"
	entry := &domain.QuoteStatusHistory{ID: "h2", Status: domain.QuoteStatusProvided, Notes: &notes}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE quotes SET status = \\$1, updated_at = clock_timestamp\\(\\) WHERE id = \\$2 RETURNING").
		WithArgs("quote_provided", "q1").
		WillReturnRows(quoteRows(domain.QuoteStatusProvided, nil))
	mock.ExpectQuery("INSERT INTO quote_status_history").
		WithArgs("h2", "q1", "quote_provided", "price attached").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	quote, err := repo.UpdateStatus(context.Background(), "q1", nil, entry)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusProvided, quote.Status)
	assert.Equal(t, "q1", entry.QuoteID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE quotes").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "q1", nil, &domain.QuoteStatusHistory{ID: "h2", Status: domain.QuoteStatusShipped})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_UpdateStatus_ExpectedStatusConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	expected := domain.QuoteStatusRequested

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE quotes SET (.+) WHERE id = \\$2 AND status = \\$3").
		WithArgs("quote_provided", "q1", "quote_requested").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "q1", &expected, &domain.QuoteStatusHistory{ID: "h2", Status: domain.QuoteStatusProvided})
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_UpdateFinalPrice_NoHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	price := decimal.RequireFromString("1250.00")

	mock.ExpectQuery("UPDATE quotes SET final_price=\\$1").
		WithArgs(price, "q1").
		WillReturnRows(quoteRows(domain.QuoteStatusRequested, "1250.00"))

	quote, err := repo.UpdateFinalPrice(context.Background(), "q1", price)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusRequested, quote.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_FilesAndHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM quote_files WHERE quote_id IN \\(\\$1,\\$2\\)").
		WithArgs("q1", "q2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "quote_id", "file_name", "file_path", "file_size", "file_type", "created_at"}).
			AddRow("f1", "q1", "a.step", "uploads/a", 10, "step", now).
			AddRow("f2", "q2", "b.stl", "uploads/b", nil, "stl", now))

	files, err := repo.FilesByQuoteIDs(context.Background(), []string{"q1", "q2"})
	require.NoError(t, err)
	require.Len(t, files["q1"], 1)
	require.NotNil(t, files["q1"][0].FileSize)
	assert.Nil(t, files["q2"][0].FileSize)

	mock.ExpectQuery("SELECT (.+) FROM quote_status_history WHERE quote_id IN \\(\\$1\\) ORDER BY created_at DESC, seq DESC").
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "quote_id", "status", "notes", "created_at"}).
			AddRow("h2", "q1", "quote_provided", "priced", now).
			AddRow("h1", "q1", "quote_requested", nil, now.Add(-time.Hour)))

	history, err := repo.HistoryByQuoteIDs(context.Background(), []string{"q1"})
	require.NoError(t, err)
	require.Len(t, history["q1"], 2)
	assert.Equal(t, domain.QuoteStatusProvided, history["q1"][0].Status)
	assert.Nil(t, history["q1"][1].Notes)
}
