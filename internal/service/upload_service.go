package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/blob"
	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/repository"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

const (
	uploadRoutePrefix = "/api/objects/upload/"
	objectRoutePrefix = "/objects/"
)

// UploadService is the blob reference store: it mints upload handles, accepts bytes for them and
// serves stored objects back under the access policy.
type UploadService struct {
	store    blob.Store
	objects  repository.BlobObjectRepository
	baseDir  string
	maxBytes int
	logger   *zap.Logger
}

// UploadDependencies bundles collaborators for the upload service.
type UploadDependencies struct {
	Store          blob.Store
	ObjectRepo     repository.BlobObjectRepository
	BaseDir        string
	MaxUploadBytes int
	Logger         *zap.Logger
}

// NewUploadService constructs the service.
func NewUploadService(deps UploadDependencies) *UploadService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	baseDir := strings.Trim(deps.BaseDir, "/")
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &UploadService{
		store:    deps.Store,
		objects:  deps.ObjectRepo,
		baseDir:  baseDir,
		maxBytes: deps.MaxUploadBytes,
		logger:   logger,
	}
}

// MintUploadHandle reserves a private object owned by ownerID.
func (s *UploadService) MintUploadHandle(ctx context.Context, ownerID string) (*domain.UploadHandle, error) {
	id := uuid.NewString()
	object := &domain.BlobObject{
		ID:          id,
		StorageKey:  s.storageKey(id),
		OwnerUserID: ownerID,
		Visibility:  domain.VisibilityPrivate,
	}
	if err := s.objects.Create(ctx, object); err != nil {
		return nil, fmt.Errorf("mint upload handle: %w", err)
	}
	return &domain.UploadHandle{
		ID:         id,
		UploadURL:  uploadRoutePrefix + id,
		ObjectPath: object.StorageKey,
	}, nil
}

// Store writes data for a previously minted handle. Metadata is only marked uploaded after the
// backend accepted the bytes.
func (s *UploadService) Store(ctx context.Context, principal *auth.Principal, id string, data []byte) (*domain.BlobObject, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("empty upload", map[string]any{"body": "must not be empty"})
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return nil, apperrors.NewValidationError("upload too large", map[string]any{"body": fmt.Sprintf("must be at most %d bytes", s.maxBytes)})
	}

	object, err := s.lookupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(auth.Resource{OwnerID: object.OwnerUserID, Visibility: object.Visibility}, auth.ActionWrite) {
		return nil, apperrors.NewForbidden("upload handle belongs to another user")
	}

	if err := s.store.Put(ctx, object.StorageKey, data); err != nil {
		s.logger.Error("blob upload failed",
			zap.String("object_id", object.ID),
			zap.String("storage_key", object.StorageKey),
			zap.String("backend", s.store.Name()),
			zap.Error(err))
		return nil, apperrors.NewUpstreamStorageError("failed to store file", err)
	}

	updated, err := s.objects.MarkUploaded(ctx, object.ID, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("mark object uploaded: %w", err)
	}
	return updated, nil
}

// Fetch returns the bytes stored under ref if the caller may read them.
func (s *UploadService) Fetch(ctx context.Context, principal *auth.Principal, ref string) ([]byte, *domain.BlobObject, error) {
	key, ok := s.keyFromReference(ref)
	if !ok {
		return nil, nil, apperrors.NewNotFound("object", map[string]any{"path": ref})
	}
	object, err := s.objects.GetByStorageKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewNotFound("object", map[string]any{"path": ref})
		}
		return nil, nil, err
	}
	if !principal.CanAccess(auth.Resource{OwnerID: object.OwnerUserID, Visibility: object.Visibility}, auth.ActionRead) {
		return nil, nil, apperrors.NewForbidden("access to object denied")
	}
	if !object.Uploaded() {
		return nil, nil, apperrors.NewNotFound("object", map[string]any{"path": ref})
	}

	data, err := s.store.Get(ctx, object.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, nil, apperrors.NewNotFound("object", map[string]any{"path": ref})
		}
		s.logger.Error("blob download failed",
			zap.String("object_id", object.ID),
			zap.String("storage_key", object.StorageKey),
			zap.String("backend", s.store.Name()),
			zap.Error(err))
		return nil, nil, apperrors.NewUpstreamStorageError("failed to read file", err)
	}
	return data, object, nil
}

// ResolveReference turns a client supplied reference into an uploaded object owned by ownerID.
// field names the request field for the validation error.
func (s *UploadService) ResolveReference(ctx context.Context, ownerID, field, ref string) (*domain.BlobObject, error) {
	invalid := func(msg string) error {
		return apperrors.NewValidationError("invalid file reference", map[string]any{field: msg})
	}

	key, ok := s.keyFromReference(ref)
	if !ok {
		return nil, invalid("is not a recognised upload reference")
	}
	object, err := s.objects.GetByStorageKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("refers to an unknown upload")
		}
		return nil, err
	}
	if object.OwnerUserID != ownerID {
		return nil, invalid("refers to an unknown upload")
	}
	if !object.Uploaded() {
		return nil, invalid("upload has not completed")
	}
	return object, nil
}

// FileUpload is a client supplied file entry before resolution.
type FileUpload struct {
	FileName  string
	UploadURL string
	FileSize  *int64
}

// ResolveFiles resolves every file entry into a storage-key reference for the quote engine.
// The stored object size wins over the client supplied one.
func (s *UploadService) ResolveFiles(ctx context.Context, ownerID string, files []FileUpload) ([]domain.FileRef, error) {
	refs := make([]domain.FileRef, 0, len(files))
	errs := fieldErrors{}
	for i, f := range files {
		field := fmt.Sprintf("files[%d].uploadURL", i)
		object, err := s.ResolveReference(ctx, ownerID, field, f.UploadURL)
		if err != nil {
			var de *apperrors.DomainError
			if errors.As(err, &de) && de.Code == apperrors.CodeValidation {
				for k, v := range de.Details {
					errs[k] = v
				}
				continue
			}
			return nil, err
		}
		size := f.FileSize
		if object.SizeBytes != nil {
			size = object.SizeBytes
		}
		refs = append(refs, domain.FileRef{
			FileName: f.FileName,
			FilePath: object.StorageKey,
			FileSize: size,
		})
	}
	if err := errs.err("invalid file reference"); err != nil {
		return nil, err
	}
	return refs, nil
}

// AttachDocument resolves an admin uploaded document and hands it to the quote owner so the
// customer can download it.
func (s *UploadService) AttachDocument(ctx context.Context, adminID, quoteOwnerID, ref string) (string, error) {
	object, err := s.ResolveReference(ctx, adminID, "documentURL", ref)
	if err != nil {
		return "", err
	}
	if object.OwnerUserID != quoteOwnerID {
		if err := s.objects.Reassign(ctx, object.ID, quoteOwnerID); err != nil {
			return "", fmt.Errorf("reassign document: %w", err)
		}
	}
	return object.StorageKey, nil
}

// StorageKeyForID maps a handle id onto its storage key.
func (s *UploadService) StorageKeyForID(id string) string {
	return s.storageKey(id)
}

func (s *UploadService) storageKey(id string) string {
	return s.baseDir + "/" + id
}

func (s *UploadService) lookupByID(ctx context.Context, id string) (*domain.BlobObject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("upload", map[string]any{"id": id})
	}
	object, err := s.objects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("upload", map[string]any{"id": id})
		}
		return nil, err
	}
	return object, nil
}

// keyFromReference accepts "/api/objects/upload/<id>", "<baseDir>/<id>", "/objects/<baseDir>/<id>"
// and absolute URLs carrying one of those paths.
func (s *UploadService) keyFromReference(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		ref = u.Path
	} else if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}

	var id string
	switch {
	case strings.HasPrefix(ref, uploadRoutePrefix):
		id = strings.TrimPrefix(ref, uploadRoutePrefix)
	case strings.HasPrefix(ref, objectRoutePrefix+s.baseDir+"/"):
		id = strings.TrimPrefix(ref, objectRoutePrefix+s.baseDir+"/")
	case strings.HasPrefix(strings.TrimPrefix(ref, "/"), s.baseDir+"/"):
		id = strings.TrimPrefix(strings.TrimPrefix(ref, "/"), s.baseDir+"/")
	default:
		return "", false
	}

	if id != path.Base(id) {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return s.storageKey(id), true
}
