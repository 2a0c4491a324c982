package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/quote-service/internal/domain"
)

// QuoteFileRequest is one uploaded file referenced by a new quote.
type QuoteFileRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	UploadURL string `json:"uploadURL" validate:"required,max=500"`
	Size      *int64 `json:"size" validate:"omitempty,gte=0"`
}

// CreateQuoteRequest payload for POST /api/quotes.
type CreateQuoteRequest struct {
	PartName             string             `json:"partName" validate:"required,max=255"`
	Service              string             `json:"service" validate:"required,quote_service"`
	Material             *string            `json:"material" validate:"omitempty,quote_material"`
	Quantity             int                `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	FinishTypes          []string           `json:"finishTypes" validate:"omitempty,dive,quote_finish"`
	QualityStandard      *string            `json:"qualityStandard" validate:"omitempty,quote_quality"`
	Notes                *string            `json:"notes"`
	TechnicalDrawingPath *string            `json:"technicalDrawingPath"`
	MeasurementReports   []string           `json:"measurementReports"`
	MaterialCertificates []string           `json:"materialCertificates"`
	PrintingProcesses    []string           `json:"printingProcesses"`
	Coatings             []string           `json:"coatings"`
	MetalPlating         []string           `json:"metalPlating"`
	HeatTreatment        []string           `json:"heatTreatment"`
	TargetPrice          *decimal.Decimal   `json:"targetPrice"`
	Files                []QuoteFileRequest `json:"files" validate:"required,min=1,dive"`
}

// UpdateStatusRequest payload for PUT /api/admin/quotes/:id/status.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,quote_status"`
	Notes  *string `json:"notes"`
}

// UpdatePriceRequest payload for PUT /api/admin/quotes/:id/price.
type UpdatePriceRequest struct {
	FinalPrice *decimal.Decimal `json:"finalPrice" validate:"required"`
}

// AttachDocumentRequest payload for PUT /api/admin/quotes/:id/document.
type AttachDocumentRequest struct {
	DocumentURL string `json:"documentURL" validate:"required,max=500"`
}

// AdminQuoteListQuery captures admin listing filters.
type AdminQuoteListQuery struct {
	Status string `query:"status" validate:"omitempty,quote_status"`
	Limit  int    `query:"limit" validate:"gte=0,lte=500"`
	Offset int    `query:"offset" validate:"gte=0"`
}

// QuoteResponse is the list projection of a quote.
type QuoteResponse struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"userId"`
	PartName             string             `json:"partName"`
	Service              string             `json:"service"`
	Material             *string            `json:"material"`
	Quantity             int                `json:"quantity"`
	FinishTypes          []string           `json:"finishTypes"`
	QualityStandard      *string            `json:"qualityStandard"`
	Notes                *string            `json:"notes"`
	TechnicalDrawingPath *string            `json:"technicalDrawingPath"`
	MeasurementReports   []string           `json:"measurementReports"`
	MaterialCertificates []string           `json:"materialCertificates"`
	PrintingProcesses    []string           `json:"printingProcesses"`
	Coatings             []string           `json:"coatings"`
	MetalPlating         []string           `json:"metalPlating"`
	HeatTreatment        []string           `json:"heatTreatment"`
	EstimatedPrice       *string            `json:"estimatedPrice"`
	FinalPrice           *string            `json:"finalPrice"`
	TargetPrice          *string            `json:"targetPrice"`
	Status               domain.QuoteStatus `json:"status"`
	QuoteDocumentPath    *string            `json:"quoteDocumentPath"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// QuoteFileResponse describes a stored file.
type QuoteFileResponse struct {
	ID        string    `json:"id"`
	QuoteID   string    `json:"quoteId"`
	FileName  string    `json:"fileName"`
	FilePath  string    `json:"filePath"`
	FileSize  *int64    `json:"fileSize"`
	FileType  string    `json:"fileType"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusHistoryResponse is one history entry.
type StatusHistoryResponse struct {
	ID        string             `json:"id"`
	QuoteID   string             `json:"quoteId"`
	Status    domain.QuoteStatus `json:"status"`
	Notes     *string            `json:"notes"`
	CreatedAt time.Time          `json:"createdAt"`
}

// QuoteDetailResponse is the full quote with files, history (newest first) and owner.
type QuoteDetailResponse struct {
	QuoteResponse
	Files         []QuoteFileResponse     `json:"files"`
	StatusHistory []StatusHistoryResponse `json:"statusHistory"`
	User          *UserProfileResponse    `json:"user,omitempty"`
}

// NewQuoteResponse maps a domain quote.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:                   q.ID,
		UserID:               q.UserID,
		PartName:             q.PartName,
		Service:              string(q.Service),
		Quantity:             q.Quantity,
		FinishTypes:          make([]string, 0, len(q.FinishTypes)),
		Notes:                q.Notes,
		TechnicalDrawingPath: q.TechnicalDrawingPath,
		MeasurementReports:   nonNil(q.Options.MeasurementReports),
		MaterialCertificates: nonNil(q.Options.MaterialCertificates),
		PrintingProcesses:    nonNil(q.Options.PrintingProcesses),
		Coatings:             nonNil(q.Options.Coatings),
		MetalPlating:         nonNil(q.Options.MetalPlatings),
		HeatTreatment:        nonNil(q.Options.HeatTreatments),
		EstimatedPrice:       formatPrice(q.EstimatedPrice),
		FinalPrice:           formatPrice(q.FinalPrice),
		TargetPrice:          formatPrice(q.TargetPrice),
		Status:               q.Status,
		QuoteDocumentPath:    q.QuoteDocumentPath,
		CreatedAt:            q.CreatedAt,
		UpdatedAt:            q.UpdatedAt,
	}
	if q.Material != nil {
		m := string(*q.Material)
		resp.Material = &m
	}
	if q.QualityStandard != nil {
		qs := string(*q.QualityStandard)
		resp.QualityStandard = &qs
	}
	for _, f := range q.FinishTypes {
		resp.FinishTypes = append(resp.FinishTypes, string(f))
	}
	return resp
}

// NewQuoteResponses maps a slice of quotes.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}
	return out
}

// NewQuoteDetailResponse maps the detail projection.
func NewQuoteDetailResponse(q *domain.QuoteWithFiles) QuoteDetailResponse {
	resp := QuoteDetailResponse{
		QuoteResponse: NewQuoteResponse(&q.Quote),
		Files:         make([]QuoteFileResponse, 0, len(q.Files)),
		StatusHistory: make([]StatusHistoryResponse, 0, len(q.StatusHistory)),
	}
	for _, f := range q.Files {
		resp.Files = append(resp.Files, QuoteFileResponse{
			ID:        f.ID,
			QuoteID:   f.QuoteID,
			FileName:  f.FileName,
			FilePath:  f.FilePath,
			FileSize:  f.FileSize,
			FileType:  f.FileType,
			CreatedAt: f.CreatedAt,
		})
	}
	for _, h := range q.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, StatusHistoryResponse{
			ID:        h.ID,
			QuoteID:   h.QuoteID,
			Status:    h.Status,
			Notes:     h.Notes,
			CreatedAt: h.CreatedAt,
		})
	}
	if q.User != nil {
		resp.User = &UserProfileResponse{
			ID:              q.User.ID,
			Email:           q.User.Email,
			FirstName:       q.User.FirstName,
			LastName:        q.User.LastName,
			ProfileImageURL: q.User.ProfileImageURL,
		}
	}
	return resp
}

// NewQuoteDetailResponses maps a slice of detail projections.
func NewQuoteDetailResponses(quotes []domain.QuoteWithFiles) []QuoteDetailResponse {
	out := make([]QuoteDetailResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteDetailResponse(&quotes[i]))
	}
	return out
}

// Options converts the request option arrays.
func (r *CreateQuoteRequest) Options() domain.QuoteOptions {
	return domain.QuoteOptions{
		MeasurementReports:   nonNil(r.MeasurementReports),
		MaterialCertificates: nonNil(r.MaterialCertificates),
		PrintingProcesses:    nonNil(r.PrintingProcesses),
		Coatings:             nonNil(r.Coatings),
		MetalPlatings:        nonNil(r.MetalPlating),
		HeatTreatments:       nonNil(r.HeatTreatment),
	}
}

func formatPrice(p decimal.NullDecimal) *string {
	if !p.Valid {
		return nil
	}
	s := p.Decimal.StringFixed(2)
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
