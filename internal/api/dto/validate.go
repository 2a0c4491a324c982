package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/quote-service/internal/domain"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "query"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
		mustRegister(v, "quote_service", func(s string) bool { return domain.ManufacturingService(s).Valid() })
		mustRegister(v, "quote_material", func(s string) bool { return domain.Material(s).Valid() })
		mustRegister(v, "quote_quality", func(s string) bool { return domain.QualityStandard(s).Valid() })
		mustRegister(v, "quote_finish", func(s string) bool { return domain.FinishType(s).Valid() })
		mustRegister(v, "quote_status", func(s string) bool { return domain.QuoteStatus(s).Valid() })
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, ok func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks a request DTO and returns a ValidationError listing every offending field.
func Validate(req any) error {
	err := instance().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid request", nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = message(fe)
	}
	return apperrors.NewValidationError("invalid request", details)
}

// fieldPath drops the root struct name from the namespace ("CreateQuoteRequest.files[0].name").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "quote_service":
		return fmt.Sprintf("unknown service %q", fe.Value())
	case "quote_material":
		return fmt.Sprintf("unknown material %q", fe.Value())
	case "quote_quality":
		return fmt.Sprintf("unknown quality standard %q", fe.Value())
	case "quote_finish":
		return fmt.Sprintf("unknown finish type %q", fe.Value())
	case "quote_status":
		return fmt.Sprintf("unknown status %q", fe.Value())
	default:
		return "is invalid"
	}
}
