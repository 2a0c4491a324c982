package blob

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=../mock/blob_store_mock.go -package=mock github.com/spec-kit/quote-service/internal/blob Store

// ErrObjectNotFound is returned when the backend holds no object under the key.
var ErrObjectNotFound = errors.New("object not found")

// Store is an opaque byte store addressed by storage key (for example "uploads/<id>").
// Any error other than ErrObjectNotFound means the backend failed.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Name() string
}
