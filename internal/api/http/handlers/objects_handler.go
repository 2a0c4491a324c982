package handlers

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quote-service/internal/api/dto"
	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/service"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

// ObjectsHandler serves the upload and download endpoints of the blob reference store.
type ObjectsHandler struct {
	uploads *service.UploadService
}

// NewObjectsHandler constructs handler.
func NewObjectsHandler(uploads *service.UploadService) *ObjectsHandler {
	return &ObjectsHandler{uploads: uploads}
}

// MintUpload POST /api/objects/upload.
func (h *ObjectsHandler) MintUpload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	handle, err := h.uploads.MintUploadHandle(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadHandleResponse{UploadURL: handle.UploadURL, ObjectPath: handle.ObjectPath})
}

// Upload PUT /api/objects/upload/:id with the raw file as body.
func (h *ObjectsHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	body := append([]byte(nil), c.Body()...)
	object, err := h.uploads.Store(c.UserContext(), principal, c.Params("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadResultResponse{Message: "File uploaded", RemotePath: object.StorageKey})
}

// DownloadUpload GET /uploads/:id?filename=.
func (h *ObjectsHandler) DownloadUpload(c *fiber.Ctx) error {
	return h.download(c, h.uploads.StorageKeyForID(c.Params("id")), c.Query("filename"))
}

// DownloadObject GET /objects/*.
func (h *ObjectsHandler) DownloadObject(c *fiber.Ctx) error {
	return h.download(c, "/objects/"+c.Params("*"), c.Query("filename"))
}

func (h *ObjectsHandler) download(c *fiber.Ctx, ref, filename string) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	data, _, err := h.uploads.Fetch(c.UserContext(), principal, ref)
	if err != nil {
		return err
	}

	contentType := fiber.MIMEOctetStream
	if filename != "" {
		if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
			contentType = t
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}
