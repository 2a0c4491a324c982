package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/quote-service/internal/domain"
)

var blobColumns = []string{"id", "storage_key", "owner_user_id", "visibility", "size_bytes", "uploaded_at", "created_at"}

func TestBlobObjectRepository_CreateAndMarkUploaded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobObjectRepository(db)
	now := time.Now()

	object := &domain.BlobObject{ID: "b1", StorageKey: "uploads/b1", OwnerUserID: "u1", Visibility: domain.VisibilityPrivate}
	mock.ExpectQuery("INSERT INTO blob_objects").
		WithArgs("b1", "uploads/b1", "u1", "private").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	require.NoError(t, repo.Create(context.Background(), object))
	assert.False(t, object.Uploaded())

	mock.ExpectQuery("UPDATE blob_objects SET size_bytes=\\$1, uploaded_at=NOW\\(\\)").
		WithArgs(int64(42), "b1").
		WillReturnRows(sqlmock.NewRows(blobColumns).AddRow("b1", "uploads/b1", "u1", "private", 42, now, now))

	uploaded, err := repo.MarkUploaded(context.Background(), "b1", 42)
	require.NoError(t, err)
	assert.True(t, uploaded.Uploaded())
	require.NotNil(t, uploaded.SizeBytes)
	assert.Equal(t, int64(42), *uploaded.SizeBytes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobObjectRepository_GetByStorageKey_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobObjectRepository(db)

	mock.ExpectQuery("FROM blob_objects WHERE storage_key=\\$1").
		WithArgs("uploads/nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByStorageKey(context.Background(), "uploads/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlobObjectRepository_Reassign(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobObjectRepository(db)

	mock.ExpectExec("UPDATE blob_objects SET owner_user_id=\\$1 WHERE id=\\$2").
		WithArgs("customer", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Reassign(context.Background(), "b1", "customer"))

	mock.ExpectExec("UPDATE blob_objects").
		WithArgs("customer", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Reassign(context.Background(), "missing", "customer"), ErrNotFound)
}
