package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quote-service/internal/api/dto"
	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/service"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

// QuotesHandler manages customer quote endpoints.
type QuotesHandler struct {
	quotes  *service.QuoteService
	uploads *service.UploadService
	reports *service.ReportService
}

// NewQuotesHandler constructs handler.
func NewQuotesHandler(quotes *service.QuoteService, uploads *service.UploadService, reports *service.ReportService) *QuotesHandler {
	return &QuotesHandler{quotes: quotes, uploads: uploads, reports: reports}
}

// CreateQuote POST /api/quotes.
func (h *QuotesHandler) CreateQuote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	var req dto.CreateQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	ctx := c.UserContext()
	uploads := make([]service.FileUpload, 0, len(req.Files))
	for _, f := range req.Files {
		uploads = append(uploads, service.FileUpload{FileName: f.Name, UploadURL: f.UploadURL, FileSize: f.Size})
	}
	files, err := h.uploads.ResolveFiles(ctx, principal.UserID(), uploads)
	if err != nil {
		return err
	}

	var drawing *string
	if req.TechnicalDrawingPath != nil && strings.TrimSpace(*req.TechnicalDrawingPath) != "" {
		object, err := h.uploads.ResolveReference(ctx, principal.UserID(), "technicalDrawingPath", *req.TechnicalDrawingPath)
		if err != nil {
			return err
		}
		drawing = &object.StorageKey
	}

	input := service.CreateQuoteInput{
		PartName:             req.PartName,
		Service:              domain.ManufacturingService(req.Service),
		Quantity:             req.Quantity,
		Notes:                req.Notes,
		TechnicalDrawingPath: drawing,
		Options:              req.Options(),
		TargetPrice:          req.TargetPrice,
		Files:                files,
	}
	if req.Material != nil {
		m := domain.Material(*req.Material)
		input.Material = &m
	}
	if req.QualityStandard != nil {
		q := domain.QualityStandard(*req.QualityStandard)
		input.QualityStandard = &q
	}
	for _, f := range req.FinishTypes {
		input.FinishTypes = append(input.FinishTypes, domain.FinishType(f))
	}

	quote, err := h.quotes.CreateQuote(ctx, principal.UserID(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewQuoteDetailResponse(quote))
}

// ListQuotes GET /api/quotes.
func (h *QuotesHandler) ListQuotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	quotes, err := h.quotes.ListQuotesForUser(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuoteResponses(quotes))
}

// GetQuote GET /api/quotes/:id.
func (h *QuotesHandler) GetQuote(c *fiber.Ctx) error {
	quote, err := h.readableQuote(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuoteDetailResponse(quote))
}

// QuoteSummaryPDF GET /api/quotes/:id/summary.pdf.
func (h *QuotesHandler) QuoteSummaryPDF(c *fiber.Ctx) error {
	quote, err := h.readableQuote(c)
	if err != nil {
		return err
	}
	pdf, err := h.reports.QuoteSummaryPDF(quote)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="quote-%s.pdf"`, quote.ID))
	return c.Send(pdf)
}

// readableQuote loads the quote and applies the owner-or-admin rule. A quote that exists but
// belongs to someone else is 403.
func (h *QuotesHandler) readableQuote(c *fiber.Ctx) (*domain.QuoteWithFiles, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	quote, err := h.quotes.GetQuote(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(auth.Resource{OwnerID: quote.UserID, Visibility: domain.VisibilityPrivate}, auth.ActionRead) {
		return nil, apperrors.NewForbidden("forbidden")
	}
	return quote, nil
}
