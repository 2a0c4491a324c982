package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

const (
	maxNameLength = 255
	// INTEGER column
	maxQuantity = math.MaxInt32
	// NUMERIC(10,2)
	priceScale       = 2
	priceIntegerDigs = 8
)

var maxPrice = decimal.New(1, priceIntegerDigs)

// fieldErrors collects offending fields for a single ValidationError.
type fieldErrors map[string]any

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError(message, map[string]any(f))
}

func validateCreateQuote(input CreateQuoteInput) error {
	errs := fieldErrors{}

	partName := strings.TrimSpace(input.PartName)
	switch {
	case partName == "":
		errs.add("partName", "is required")
	case utf8.RuneCountInString(partName) > maxNameLength:
		errs.add("partName", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}

	switch {
	case input.Quantity <= 0:
		errs.add("quantity", "must be a positive integer")
	case input.Quantity > maxQuantity:
		errs.add("quantity", fmt.Sprintf("must be at most %d", maxQuantity))
	}
	if !input.Service.Valid() {
		errs.add("service", fmt.Sprintf("unknown service %q", input.Service))
	}
	if input.Material != nil && !input.Material.Valid() {
		errs.add("material", fmt.Sprintf("unknown material %q", *input.Material))
	}
	if input.QualityStandard != nil && !input.QualityStandard.Valid() {
		errs.add("qualityStandard", fmt.Sprintf("unknown quality standard %q", *input.QualityStandard))
	}
	for i, finish := range input.FinishTypes {
		if !finish.Valid() {
			errs.add(fmt.Sprintf("finishTypes[%d]", i), fmt.Sprintf("unknown finish type %q", finish))
		}
	}
	if input.TargetPrice != nil {
		if msg := checkPrice(*input.TargetPrice); msg != "" {
			errs.add("targetPrice", msg)
		}
	}

	if len(input.Files) == 0 {
		errs.add("files", "at least one file is required")
	}
	for i, file := range input.Files {
		name := strings.TrimSpace(file.FileName)
		switch {
		case name == "":
			errs.add(fmt.Sprintf("files[%d].fileName", i), "is required")
		case utf8.RuneCountInString(name) > maxNameLength:
			errs.add(fmt.Sprintf("files[%d].fileName", i), fmt.Sprintf("must be at most %d characters", maxNameLength))
		}
		if strings.TrimSpace(file.FilePath) == "" {
			errs.add(fmt.Sprintf("files[%d].uploadURL", i), "is required")
		}
		if file.FileSize != nil && *file.FileSize < 0 {
			errs.add(fmt.Sprintf("files[%d].fileSize", i), "must not be negative")
		}
	}

	return errs.err("invalid quote request")
}

// checkPrice returns a message when price is not a positive NUMERIC(10,2) value.
func checkPrice(price decimal.Decimal) string {
	if !price.IsPositive() {
		return "must be a positive amount"
	}
	if !price.Round(priceScale).Equal(price) {
		return fmt.Sprintf("must have at most %d decimal places", priceScale)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return fmt.Sprintf("must have at most %d integer digits", priceIntegerDigs)
	}
	return ""
}

// fileTypeOf derives the lower-cased extension after the last dot, or "" when there is none.
func fileTypeOf(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return strings.ToLower(fileName[idx+1:])
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
