package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quote-service/internal/api/dto"
	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/service"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminQuotesHandler exposes admin-only quote management.
type AdminQuotesHandler struct {
	quotes  *service.QuoteService
	uploads *service.UploadService
	reports *service.ReportService
}

// NewAdminQuotesHandler constructs handler.
func NewAdminQuotesHandler(quotes *service.QuoteService, uploads *service.UploadService, reports *service.ReportService) *AdminQuotesHandler {
	return &AdminQuotesHandler{quotes: quotes, uploads: uploads, reports: reports}
}

// ListQuotes GET /api/admin/quotes.
func (h *AdminQuotesHandler) ListQuotes(c *fiber.Ctx) error {
	filter, err := parseAdminFilter(c)
	if err != nil {
		return err
	}
	quotes, err := h.quotes.ListAllQuotes(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuoteDetailResponses(quotes))
}

// ExportQuotes GET /api/admin/quotes/export.xlsx.
func (h *AdminQuotesHandler) ExportQuotes(c *fiber.Ctx) error {
	filter, err := parseAdminFilter(c)
	if err != nil {
		return err
	}
	quotes, err := h.quotes.ListAllQuotes(c.UserContext(), filter)
	if err != nil {
		return err
	}
	workbook, err := h.reports.QuotesWorkbook(quotes)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="quotes-%s.xlsx"`, time.Now().UTC().Format("20060102")))
	return c.Send(workbook)
}

// UpdateStatus PUT /api/admin/quotes/:id/status.
func (h *AdminQuotesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	quote, err := h.quotes.UpdateStatus(c.UserContext(), principal.UserID(), c.Params("id"), domain.QuoteStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuoteResponse(quote))
}

// UpdatePrice PUT /api/admin/quotes/:id/price.
func (h *AdminQuotesHandler) UpdatePrice(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdatePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"finalPrice": "must be a decimal amount"})
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	quote, err := h.quotes.UpdatePrice(c.UserContext(), principal.UserID(), c.Params("id"), *req.FinalPrice)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuoteResponse(quote))
}

// AttachDocument PUT /api/admin/quotes/:id/document.
func (h *AdminQuotesHandler) AttachDocument(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AttachDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	ctx := c.UserContext()
	existing, err := h.quotes.GetQuote(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	key, err := h.uploads.AttachDocument(ctx, principal.UserID(), existing.UserID, req.DocumentURL)
	if err != nil {
		return err
	}
	quote, err := h.quotes.AttachQuoteDocument(ctx, principal.UserID(), existing.ID, key)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuoteResponse(quote))
}

func parseAdminFilter(c *fiber.Ctx) (domain.QuoteListFilter, error) {
	var q dto.AdminQuoteListQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.QuoteListFilter{}, apperrors.NewValidationError("invalid query", nil)
	}
	if err := dto.Validate(&q); err != nil {
		return domain.QuoteListFilter{}, err
	}
	filter := domain.QuoteListFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		status := domain.QuoteStatus(q.Status)
		filter.Status = &status
	}
	return filter, nil
}
