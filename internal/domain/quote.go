package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus enumerates lifecycle states for quotes.
type QuoteStatus string

const (
	QuoteStatusRequested      QuoteStatus = "quote_requested"
	QuoteStatusProvided       QuoteStatus = "quote_provided"
	QuoteStatusOrderConfirmed QuoteStatus = "order_confirmed"
	QuoteStatusInProduction   QuoteStatus = "in_production"
	QuoteStatusQualityCheck   QuoteStatus = "quality_check"
	QuoteStatusShipped        QuoteStatus = "shipped"
	QuoteStatusDelivered      QuoteStatus = "delivered"
)

// QuoteStatuses lists the states in their intended forward order.
var QuoteStatuses = []QuoteStatus{
	QuoteStatusRequested,
	QuoteStatusProvided,
	QuoteStatusOrderConfirmed,
	QuoteStatusInProduction,
	QuoteStatusQualityCheck,
	QuoteStatusShipped,
	QuoteStatusDelivered,
}

// Valid reports whether s is a known status.
func (s QuoteStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank returns the position of s in the forward order, or -1 if unknown.
func (s QuoteStatus) Rank() int {
	for i, status := range QuoteStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

// Next returns the state that follows s in the forward order.
func (s QuoteStatus) Next() (QuoteStatus, bool) {
	r := s.Rank()
	if r < 0 || r == len(QuoteStatuses)-1 {
		return "", false
	}
	return QuoteStatuses[r+1], true
}

// ManufacturingService is the requested manufacturing process.
type ManufacturingService string

const (
	ServiceCNCMachining      ManufacturingService = "cnc_machining"
	ServiceLaserCutting      ManufacturingService = "laser_cutting"
	Service3DPrinting        ManufacturingService = "3d_printing"
	ServiceSheetMetalForming ManufacturingService = "sheet_metal_forming"
	ServiceInjectionMolding  ManufacturingService = "injection_molding"
	ServiceWeldedFabrication ManufacturingService = "welded_fabrication"
	ServiceTIGWelding        ManufacturingService = "tig_welding"
	ServiceMIGMAGWelding     ManufacturingService = "mig_mag_welding"
	ServiceLaserWelding      ManufacturingService = "laser_welding"
	ServiceSpotWelding       ManufacturingService = "spot_welding"
	ServiceArcWelding        ManufacturingService = "arc_welding"
)

var manufacturingServices = map[ManufacturingService]struct{}{
	ServiceCNCMachining: {}, ServiceLaserCutting: {}, Service3DPrinting: {},
	ServiceSheetMetalForming: {}, ServiceInjectionMolding: {}, ServiceWeldedFabrication: {},
	ServiceTIGWelding: {}, ServiceMIGMAGWelding: {}, ServiceLaserWelding: {},
	ServiceSpotWelding: {}, ServiceArcWelding: {},
}

func (s ManufacturingService) Valid() bool {
	_, ok := manufacturingServices[s]
	return ok
}

// Material is the requested stock material.
type Material string

const (
	MaterialAluminum6061      Material = "aluminum_6061"
	MaterialAluminum7075      Material = "aluminum_7075"
	MaterialSteel1040         Material = "steel_1040"
	MaterialSteel1045         Material = "steel_1045"
	MaterialStainlessSteel304 Material = "stainless_steel_304"
	MaterialStainlessSteel316 Material = "stainless_steel_316"
	MaterialBrass             Material = "brass"
	MaterialCopper            Material = "copper"
	MaterialTitanium          Material = "titanium"
	MaterialABS               Material = "abs"
	MaterialPLA               Material = "pla"
	MaterialPETG              Material = "petg"
	MaterialNylon             Material = "nylon"
	MaterialPolycarbonate     Material = "polycarbonate"
)

var materials = map[Material]struct{}{
	MaterialAluminum6061: {}, MaterialAluminum7075: {}, MaterialSteel1040: {}, MaterialSteel1045: {},
	MaterialStainlessSteel304: {}, MaterialStainlessSteel316: {}, MaterialBrass: {}, MaterialCopper: {},
	MaterialTitanium: {}, MaterialABS: {}, MaterialPLA: {}, MaterialPETG: {}, MaterialNylon: {},
	MaterialPolycarbonate: {},
}

func (m Material) Valid() bool {
	_, ok := materials[m]
	return ok
}

// QualityStandard is the general tolerance class.
type QualityStandard string

const (
	QualityFine       QualityStandard = "fine"
	QualityMedium     QualityStandard = "medium"
	QualityCoarse     QualityStandard = "coarse"
	QualityVeryCoarse QualityStandard = "very_coarse"
)

func (q QualityStandard) Valid() bool {
	switch q {
	case QualityFine, QualityMedium, QualityCoarse, QualityVeryCoarse:
		return true
	}
	return false
}

// FinishType is a surface finish tag.
type FinishType string

const (
	FinishAsMachined    FinishType = "as_machined"
	FinishAnodized      FinishType = "anodized"
	FinishPowderCoated  FinishType = "powder_coated"
	FinishElectroplated FinishType = "electroplated"
	FinishBrushed       FinishType = "brushed"
	FinishPolished      FinishType = "polished"
	FinishSandblasted   FinishType = "sandblasted"
	FinishPainted       FinishType = "painted"
)

func (f FinishType) Valid() bool {
	switch f {
	case FinishAsMachined, FinishAnodized, FinishPowderCoated, FinishElectroplated,
		FinishBrushed, FinishPolished, FinishSandblasted, FinishPainted:
		return true
	}
	return false
}

// QuoteOptions holds the free-form option tags. They are not validated against any list.
type QuoteOptions struct {
	MeasurementReports   []string
	MaterialCertificates []string
	PrintingProcesses    []string
	Coatings             []string
	MetalPlatings        []string
	HeatTreatments       []string
}

// Quote is the aggregate for manufacturing requests.
type Quote struct {
	ID                   string
	UserID               string
	PartName             string
	Service              ManufacturingService
	Material             *Material
	Quantity             int
	FinishTypes          []FinishType
	QualityStandard      *QualityStandard
	Notes                *string
	TechnicalDrawingPath *string
	Options              QuoteOptions
	EstimatedPrice       decimal.NullDecimal
	FinalPrice           decimal.NullDecimal
	TargetPrice          decimal.NullDecimal
	Status               QuoteStatus
	QuoteDocumentPath    *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// QuoteWithFiles is the detail projection: the quote, its files, its history (newest first)
// and the owner's profile.
type QuoteWithFiles struct {
	Quote
	Files         []QuoteFile
	StatusHistory []QuoteStatusHistory
	User          *UserProfile
}

// QuoteListFilter narrows the admin listing.
type QuoteListFilter struct {
	Status *QuoteStatus
	Limit  int
	Offset int
}
