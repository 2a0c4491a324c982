package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/quote-service/internal/domain"
)

//go:generate mockgen -destination=../mock/quote_repository_mock.go -package=mock github.com/spec-kit/quote-service/internal/repository QuoteRepository

// QuoteRepository encapsulates persistence of the quote aggregate: quotes, their files and
// their status history. Every method that touches more than one table runs in one transaction.
type QuoteRepository interface {
	CreateWithFiles(ctx context.Context, quote *domain.Quote, files []domain.QuoteFile, initial *domain.QuoteStatusHistory) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Quote, error)
	List(ctx context.Context, filter domain.QuoteListFilter) ([]domain.Quote, error)
	FilesByQuoteIDs(ctx context.Context, quoteIDs []string) (map[string][]domain.QuoteFile, error)
	HistoryByQuoteIDs(ctx context.Context, quoteIDs []string) (map[string][]domain.QuoteStatusHistory, error)
	// UpdateStatus sets the status and appends entry in one transaction. When expected is not nil
	// the update only applies if the current status still equals it (ErrStatusConflict otherwise).
	UpdateStatus(ctx context.Context, id string, expected *domain.QuoteStatus, entry *domain.QuoteStatusHistory) (*domain.Quote, error)
	UpdateFinalPrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Quote, error)
	SetQuoteDocument(ctx context.Context, id, path string) (*domain.Quote, error)
}

type quoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository instantiates repository.
func NewQuoteRepository(db *sql.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

var quoteColumns = []string{
	"id", "user_id", "part_name", "service", "material", "quantity", "finish_types",
	"quality_standard", "notes", "technical_drawing_path",
	"measurement_reports", "material_certificates", "printing_processes", "coatings",
	"metal_platings", "heat_treatments",
	"estimated_price", "final_price", "target_price", "status", "quote_document_path",
	"created_at", "updated_at",
}

const quoteReturning = `RETURNING id, user_id, part_name, service, material, quantity, finish_types,
            quality_standard, notes, technical_drawing_path,
            measurement_reports, material_certificates, printing_processes, coatings,
            metal_platings, heat_treatments,
            estimated_price, final_price, target_price, status, quote_document_path,
            created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*domain.Quote, error) {
	var (
		q               domain.Quote
		material        sql.NullString
		qualityStandard sql.NullString
		notes           sql.NullString
		drawing         sql.NullString
		document        sql.NullString
		finishTypes     []string
	)
	if err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.PartName,
		&q.Service,
		&material,
		&q.Quantity,
		pq.Array(&finishTypes),
		&qualityStandard,
		&notes,
		&drawing,
		pq.Array(&q.Options.MeasurementReports),
		pq.Array(&q.Options.MaterialCertificates),
		pq.Array(&q.Options.PrintingProcesses),
		pq.Array(&q.Options.Coatings),
		pq.Array(&q.Options.MetalPlatings),
		pq.Array(&q.Options.HeatTreatments),
		&q.EstimatedPrice,
		&q.FinalPrice,
		&q.TargetPrice,
		&q.Status,
		&document,
		&q.CreatedAt,
		&q.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if material.Valid {
		m := domain.Material(material.String)
		q.Material = &m
	}
	if qualityStandard.Valid {
		qs := domain.QualityStandard(qualityStandard.String)
		q.QualityStandard = &qs
	}
	q.Notes = nullStringPtr(notes)
	q.TechnicalDrawingPath = nullStringPtr(drawing)
	q.QuoteDocumentPath = nullStringPtr(document)
	q.FinishTypes = make([]domain.FinishType, 0, len(finishTypes))
	for _, f := range finishTypes {
		q.FinishTypes = append(q.FinishTypes, domain.FinishType(f))
	}
	return &q, nil
}

func (r *quoteRepository) CreateWithFiles(ctx context.Context, quote *domain.Quote, files []domain.QuoteFile, initial *domain.QuoteStatusHistory) error {
	const insertQuote = `
        INSERT INTO quotes (id, user_id, part_name, service, material, quantity, finish_types,
            quality_standard, notes, technical_drawing_path,
            measurement_reports, material_certificates, printing_processes, coatings,
            metal_platings, heat_treatments, estimated_price, target_price, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        RETURNING created_at, updated_at`

	finishTypes := make([]string, 0, len(quote.FinishTypes))
	for _, f := range quote.FinishTypes {
		finishTypes = append(finishTypes, string(f))
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertQuote,
			quote.ID,
			quote.UserID,
			quote.PartName,
			quote.Service,
			quote.Material,
			quote.Quantity,
			pq.Array(finishTypes),
			quote.QualityStandard,
			quote.Notes,
			quote.TechnicalDrawingPath,
			pq.Array(nonNil(quote.Options.MeasurementReports)),
			pq.Array(nonNil(quote.Options.MaterialCertificates)),
			pq.Array(nonNil(quote.Options.PrintingProcesses)),
			pq.Array(nonNil(quote.Options.Coatings)),
			pq.Array(nonNil(quote.Options.MetalPlatings)),
			pq.Array(nonNil(quote.Options.HeatTreatments)),
			quote.EstimatedPrice,
			quote.TargetPrice,
			quote.Status,
		).Scan(&quote.CreatedAt, &quote.UpdatedAt); err != nil {
			return fmt.Errorf("insert quote: %w", err)
		}

		for i := range files {
			if err := insertQuoteFile(ctx, tx, &files[i]); err != nil {
				return err
			}
		}

		return insertHistory(ctx, tx, initial)
	})
}

func insertQuoteFile(ctx context.Context, q queryer, file *domain.QuoteFile) error {
	const query = `
        INSERT INTO quote_files (id, quote_id, file_name, file_path, file_size, file_type)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	if err := q.QueryRowContext(ctx, query,
		file.ID,
		file.QuoteID,
		file.FileName,
		file.FilePath,
		file.FileSize,
		file.FileType,
	).Scan(&file.CreatedAt); err != nil {
		return fmt.Errorf("insert quote file: %w", err)
	}
	return nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	query, args, err := psql.Select(quoteColumns...).From("quotes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quote query: %w", err)
	}
	quote, err := scanQuote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select quote: %w", err)
	}
	return quote, nil
}

func (r *quoteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Quote, error) {
	builder := psql.Select(quoteColumns...).
		From("quotes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	return r.list(ctx, builder)
}

func (r *quoteRepository) List(ctx context.Context, filter domain.QuoteListFilter) ([]domain.Quote, error) {
	builder := psql.Select(quoteColumns...).From("quotes")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	builder = builder.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	return r.list(ctx, builder)
}

func (r *quoteRepository) list(ctx context.Context, builder sq.SelectBuilder) ([]domain.Quote, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quotes query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select quotes: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Quote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		result = append(result, *quote)
	}
	return result, rows.Err()
}

func (r *quoteRepository) FilesByQuoteIDs(ctx context.Context, quoteIDs []string) (map[string][]domain.QuoteFile, error) {
	result := make(map[string][]domain.QuoteFile, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.
		Select("id", "quote_id", "file_name", "file_path", "file_size", "file_type", "created_at").
		From("quote_files").
		Where(sq.Eq{"quote_id": quoteIDs}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build files query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select quote files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			file domain.QuoteFile
			size sql.NullInt64
		)
		if err := rows.Scan(&file.ID, &file.QuoteID, &file.FileName, &file.FilePath, &size, &file.FileType, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quote file: %w", err)
		}
		if size.Valid {
			s := size.Int64
			file.FileSize = &s
		}
		result[file.QuoteID] = append(result[file.QuoteID], file)
	}
	return result, rows.Err()
}

func (r *quoteRepository) UpdateStatus(ctx context.Context, id string, expected *domain.QuoteStatus, entry *domain.QuoteStatusHistory) (*domain.Quote, error) {
	builder := psql.Update("quotes").
		Set("status", entry.Status).
		Set("updated_at", sq.Expr("clock_timestamp()")).
		Where(sq.Eq{"id": id})
	if expected != nil {
		builder = builder.Where(sq.Eq{"status": *expected})
	}
	query, args, err := builder.Suffix(quoteReturning).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status update: %w", err)
	}

	var updated *domain.Quote
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		quote, err := scanQuote(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("update quote status: %w", err)
			}
			if expected == nil {
				return ErrNotFound
			}
			return r.missOrConflict(ctx, tx, id)
		}

		entry.QuoteID = id
		if err := insertHistory(ctx, tx, entry); err != nil {
			return err
		}
		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// missOrConflict tells a missing quote apart from a failed status precondition.
func (r *quoteRepository) missOrConflict(ctx context.Context, tx *sql.Tx, id string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE id=$1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check quote: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}

func (r *quoteRepository) UpdateFinalPrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Quote, error) {
	query := `UPDATE quotes SET final_price=$1, updated_at=NOW() WHERE id=$2 ` + quoteReturning
	return r.updateOne(ctx, query, price, id)
}

func (r *quoteRepository) SetQuoteDocument(ctx context.Context, id, path string) (*domain.Quote, error) {
	query := `UPDATE quotes SET quote_document_path=$1, updated_at=NOW() WHERE id=$2 ` + quoteReturning
	return r.updateOne(ctx, query, path, id)
}

func (r *quoteRepository) updateOne(ctx context.Context, query string, args ...any) (*domain.Quote, error) {
	quote, err := scanQuote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update quote: %w", err)
	}
	return quote, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
