// Package validation wraps go-playground/validator for operation parameter
// structs. Failures come back as apperr.InvalidArgument with one message per
// field, named by the field's JSON key so they match the tool schemas.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/HendryAvila/Nexus/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports JSON field names and understands
// the "notblank" tag (non-empty after trimming whitespace).
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct validates s and converts any failure into an InvalidArgument error.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.InvalidArgument("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return apperr.InvalidArgument("%s", strings.Join(msgs, "; "))
}

// formatFieldError renders a single field failure.
func formatFieldError(fe validator.FieldError) string {
	field := fieldPath(fe)

	// ActualTag resolves aliases such as "step_type" to the underlying rule.
	switch fe.ActualTag() {
	case "required", "notblank":
		return fmt.Sprintf("'%s' is required", field)
	case "min":
		return fmt.Sprintf("'%s' must contain at least %s item(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("'%s' must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("'%s' must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("'%s' is invalid (%s)", field, fe.Tag())
	}
}

// fieldPath strips the top-level struct name from the namespace,
// e.g. "AnalyzeParams.focus_areas[1]" -> "focus_areas[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
