package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field path to a human-readable reason.
type FieldErrors map[string]string

// Add records a reason for field unless one is already present.
func (f FieldErrors) Add(field, reason string) {
	if _, exists := f[field]; !exists {
		f[field] = reason
	}
}

// SelfValidator is implemented by request payloads with checks that struct
// tags cannot express, typically coercion results and cross-field rules.
type SelfValidator interface {
	Validate(errs FieldErrors)
}

// Translate converts a binding error into per-field reasons. It returns nil
// when err does not describe specific fields (e.g. malformed JSON).
func Translate(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := FieldErrors{}
		for _, fe := range verrs {
			out.Add(fieldPath(fe), reason(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldErrors{typeErr.Field: "must be a " + jsonKind(typeErr.Type.Kind().String())}
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace, leaving the
// JSON path (e.g. "preferences.location.place").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "uuid":
		return "must be a valid id"
	case "shopping_priority":
		return "must be one of: high, medium, low"
	case "symptom_severity":
		return "must be one of: mild, moderate, severe"
	case "post_category":
		return "must be one of: " + strings.Join(PostCategories, ", ")
	case "birth_place":
		return "must be one of: hospital, birth_center, home"
	}
	return "is invalid"
}

func jsonKind(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"), strings.HasPrefix(kind, "float"):
		return "number"
	case kind == "bool":
		return "boolean"
	case kind == "slice":
		return "list"
	case kind == "struct", kind == "map":
		return "object"
	}
	return kind
}

// RequireNumber reports a missing or non-numeric value.
func RequireNumber(errs FieldErrors, field string, n Number) {
	switch {
	case !n.Set || n.Null:
		errs.Add(field, "is required")
	case n.Invalid:
		errs.Add(field, fmt.Sprintf("must be a number, got %q", n.Raw))
	}
}

// CheckNumber reports a non-numeric value for an optional field.
func CheckNumber(errs FieldErrors, field string, n Number) {
	if n.Invalid {
		errs.Add(field, fmt.Sprintf("must be a number, got %q", n.Raw))
	}
}

// NumberRange reports a present value outside [min, max].
func NumberRange(errs FieldErrors, field string, n Number, min, max float64) {
	if n.Present() && (n.Value < min || n.Value > max) {
		errs.Add(field, fmt.Sprintf("must be between %s and %s",
			strconv.FormatFloat(min, 'f', -1, 64), strconv.FormatFloat(max, 'f', -1, 64)))
	}
}

// Positive reports a present value that is not greater than zero.
func Positive(errs FieldErrors, field string, n Number) {
	if n.Present() && n.Value <= 0 {
		errs.Add(field, "must be greater than 0")
	}
}

// WholeNumber reports a present value with a fractional part.
func WholeNumber(errs FieldErrors, field string, n Number) {
	if n.Present() && n.Value != float64(int64(n.Value)) {
		errs.Add(field, "must be a whole number")
	}
}

// RequireDate reports a missing or unparseable date.
func RequireDate(errs FieldErrors, field string, d Date) {
	switch {
	case !d.Set || d.Null:
		errs.Add(field, "is required")
	case d.Invalid:
		errs.Add(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
}

// CheckDate reports an unparseable date for an optional field.
func CheckDate(errs FieldErrors, field string, d Date) {
	if d.Invalid {
		errs.Add(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
}

// RejectNull reports an explicit null for a field that cannot be cleared.
func RejectNull(errs FieldErrors, field string, isNull bool) {
	if isNull {
		errs.Add(field, "cannot be null")
	}
}

// MaxLength reports a present optional string longer than n characters.
func MaxLength(errs FieldErrors, field string, o Optional[string], n int) {
	if p := o.Ptr(); p != nil && utf8.RuneCountInString(*p) > n {
		errs.Add(field, fmt.Sprintf("must be at most %d characters", n))
	}
}
