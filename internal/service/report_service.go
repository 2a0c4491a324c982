package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/quote-service/internal/domain"
)

const quotesSheet = "Quotes"

var workbookHeader = []string{
	"ID", "Part Name", "Service", "Material", "Quantity", "Finish Types", "Quality Standard",
	"Status", "Target Price", "Estimated Price", "Final Price", "Customer", "Email", "Files",
	"Created At", "Updated At",
}

// ReportService renders quotes as PDF summaries and spreadsheet exports.
type ReportService struct {
	now func() time.Time
}

// NewReportService constructs the service.
func NewReportService() *ReportService {
	return &ReportService{now: time.Now}
}

// QuoteSummaryPDF renders a one page summary of a quote.
func (s *ReportService) QuoteSummaryPDF(quote *domain.QuoteWithFiles) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Quote "+quote.ID), false)
	pdf.AddPage()

	pdf.SetFillColor(0, 0, 0)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 12, "Quote Summary", "1", 1, "C", true, 0, "")
	pdf.SetFillColor(255, 255, 255)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(190, 5, fmt.Sprintf("Quote ID: %s", quote.ID))
	pdf.Ln(5)
	pdf.Cell(190, 5, fmt.Sprintf("Generated on: %s", s.now().UTC().Format("2006-01-02 15:04:05 MST")))
	pdf.Ln(8)

	rows := [][2]string{
		{"Part name", quote.PartName},
		{"Service", string(quote.Service)},
		{"Material", strOrDash(materialString(quote.Material))},
		{"Quantity", fmt.Sprintf("%d", quote.Quantity)},
		{"Finish types", strOrDash(joinFinishes(quote.FinishTypes))},
		{"Quality standard", strOrDash(qualityString(quote.QualityStandard))},
		{"Status", string(quote.Status)},
		{"Target price", priceString(quote.TargetPrice)},
		{"Estimated price", priceString(quote.EstimatedPrice)},
		{"Final price", priceString(quote.FinalPrice)},
		{"Submitted", quote.CreatedAt.UTC().Format("2006-01-02 15:04")},
	}
	if quote.User != nil {
		rows = append(rows, [2]string{"Customer", fmt.Sprintf("%s %s <%s>", quote.User.FirstName, quote.User.LastName, quote.User.Email)})
	}

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(140, 7, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	if quote.Notes != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 7, "Notes")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, tr(*quote.Notes), "1", "L", false)
	}

	pdf.Ln(4)
	sectionHeader(pdf, "Files")
	pdf.SetFillColor(200, 220, 240)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(110, 7, "File name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Size (bytes)", "1", 1, "C", true, 0, "")
	pdf.SetFillColor(255, 255, 255)
	pdf.SetFont("Arial", "", 9)
	for _, f := range quote.Files {
		size := "-"
		if f.FileSize != nil {
			size = fmt.Sprintf("%d", *f.FileSize)
		}
		pdf.CellFormat(110, 6, tr(f.FileName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strOrDash(f.FileType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, size, "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	sectionHeader(pdf, "Status History")
	pdf.SetFillColor(200, 220, 240)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(45, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(100, 7, "Notes", "1", 1, "C", true, 0, "")
	pdf.SetFillColor(255, 255, 255)
	pdf.SetFont("Arial", "", 9)
	for _, h := range quote.StatusHistory {
		notes := "-"
		if h.Notes != nil {
			notes = *h.Notes
		}
		pdf.CellFormat(45, 6, h.CreatedAt.UTC().Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, string(h.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, tr(truncate(notes, 60)), "1", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render quote summary: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote summary: %w", err)
	}
	return buf.Bytes(), nil
}

// QuotesWorkbook renders quotes as an xlsx workbook with one row per quote.
func (s *ReportService) QuotesWorkbook(quotes []domain.QuoteWithFiles) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(quotesSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	for col, title := range workbookHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(quotesSheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, q := range quotes {
		customer, email := "", ""
		if q.User != nil {
			customer = strings.TrimSpace(q.User.FirstName + " " + q.User.LastName)
			email = q.User.Email
		}
		fileNames := make([]string, 0, len(q.Files))
		for _, file := range q.Files {
			fileNames = append(fileNames, file.FileName)
		}
		values := []any{
			q.ID,
			q.PartName,
			string(q.Service),
			materialString(q.Material),
			q.Quantity,
			joinFinishes(q.FinishTypes),
			qualityString(q.QualityStandard),
			string(q.Status),
			priceCell(q.TargetPrice),
			priceCell(q.EstimatedPrice),
			priceCell(q.FinalPrice),
			customer,
			email,
			strings.Join(fileNames, ", "),
			q.CreatedAt.UTC().Format(time.RFC3339),
			q.UpdatedAt.UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(quotesSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 8, title, "1", 1, "L", true, 0, "")
	pdf.SetFillColor(255, 255, 255)
}

func materialString(m *domain.Material) string {
	if m == nil {
		return ""
	}
	return string(*m)
}

func qualityString(q *domain.QualityStandard) string {
	if q == nil {
		return ""
	}
	return string(*q)
}

func joinFinishes(finishes []domain.FinishType) string {
	parts := make([]string, 0, len(finishes))
	for _, f := range finishes {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}

func priceString(p decimal.NullDecimal) string {
	if !p.Valid {
		return "-"
	}
	return p.Decimal.StringFixed(2)
}

// priceCell keeps empty prices as blank cells.
func priceCell(p decimal.NullDecimal) any {
	if !p.Valid {
		return ""
	}
	v, _ := p.Decimal.Round(2).Float64()
	return v
}

func strOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
