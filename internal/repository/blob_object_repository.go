package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spec-kit/quote-service/internal/domain"
)

//go:generate mockgen -destination=../mock/blob_object_repository_mock.go -package=mock github.com/spec-kit/quote-service/internal/repository BlobObjectRepository

// BlobObjectRepository stores metadata and ownership of uploaded objects.
type BlobObjectRepository interface {
	Create(ctx context.Context, object *domain.BlobObject) error
	GetByID(ctx context.Context, id string) (*domain.BlobObject, error)
	GetByStorageKey(ctx context.Context, key string) (*domain.BlobObject, error)
	MarkUploaded(ctx context.Context, id string, size int64) (*domain.BlobObject, error)
	Reassign(ctx context.Context, id, ownerID string) error
}

type blobObjectRepository struct {
	db *sql.DB
}

// NewBlobObjectRepository builds repository.
func NewBlobObjectRepository(db *sql.DB) BlobObjectRepository {
	return &blobObjectRepository{db: db}
}

const blobObjectColumns = `id, storage_key, owner_user_id, visibility, size_bytes, uploaded_at, created_at`

func (r *blobObjectRepository) Create(ctx context.Context, object *domain.BlobObject) error {
	const query = `
        INSERT INTO blob_objects (id, storage_key, owner_user_id, visibility)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query,
		object.ID,
		object.StorageKey,
		object.OwnerUserID,
		object.Visibility,
	).Scan(&object.CreatedAt); err != nil {
		return fmt.Errorf("insert blob object: %w", err)
	}
	return nil
}

func (r *blobObjectRepository) GetByID(ctx context.Context, id string) (*domain.BlobObject, error) {
	return r.fetchSingle(ctx, `SELECT `+blobObjectColumns+` FROM blob_objects WHERE id=$1`, id)
}

func (r *blobObjectRepository) GetByStorageKey(ctx context.Context, key string) (*domain.BlobObject, error) {
	return r.fetchSingle(ctx, `SELECT `+blobObjectColumns+` FROM blob_objects WHERE storage_key=$1`, key)
}

func (r *blobObjectRepository) MarkUploaded(ctx context.Context, id string, size int64) (*domain.BlobObject, error) {
	const query = `
        UPDATE blob_objects SET size_bytes=$1, uploaded_at=NOW()
        WHERE id=$2
        RETURNING ` + blobObjectColumns
	return r.fetchSingle(ctx, query, size, id)
}

// Reassign hands an object over to another owner.
func (r *blobObjectRepository) Reassign(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE blob_objects SET owner_user_id=$1 WHERE id=$2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("reassign blob object: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reassign blob object: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *blobObjectRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.BlobObject, error) {
	var (
		object     domain.BlobObject
		size       sql.NullInt64
		uploadedAt sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&object.ID,
		&object.StorageKey,
		&object.OwnerUserID,
		&object.Visibility,
		&size,
		&uploadedAt,
		&object.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select blob object: %w", err)
	}
	if size.Valid {
		s := size.Int64
		object.SizeBytes = &s
	}
	if uploadedAt.Valid {
		t := uploadedAt.Time
		object.UploadedAt = &t
	}
	return &object, nil
}
