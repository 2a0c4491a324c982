package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/spec-kit/quote-service/internal/domain"
)

// insertHistory appends an audit entry. The timestamp is taken by the database at insert time so
// entries written after a row lock always sort after the ones written before it.
func insertHistory(ctx context.Context, q queryer, entry *domain.QuoteStatusHistory) error {
	const query = `
        INSERT INTO quote_status_history (id, quote_id, status, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	if err := q.QueryRowContext(ctx, query,
		entry.ID,
		entry.QuoteID,
		entry.Status,
		entry.Notes,
	).Scan(&entry.CreatedAt); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

func (r *quoteRepository) HistoryByQuoteIDs(ctx context.Context, quoteIDs []string) (map[string][]domain.QuoteStatusHistory, error) {
	result := make(map[string][]domain.QuoteStatusHistory, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.
		Select("id", "quote_id", "status", "notes", "created_at").
		From("quote_status_history").
		Where(sq.Eq{"quote_id": quoteIDs}).
		OrderBy("created_at DESC", "seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry domain.QuoteStatusHistory
			notes sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.QuoteID, &entry.Status, &notes, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		entry.Notes = nullStringPtr(notes)
		result[entry.QuoteID] = append(result[entry.QuoteID], entry)
	}
	return result, rows.Err()
}
