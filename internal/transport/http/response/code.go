package response

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"horti-admin/internal/domain"
)

// Validation turns a binding failure into a VALIDATION_FAILED error with one
// message per offending field.
func Validation(err error) *domain.Error {
	if e := From(err); e.Code == domain.CodePayloadTooLarge {
		return e
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// malformed JSON, wrong types, bad numbers
		return domain.BadRequest(domain.CodeValidationFailed, err.Error())
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return domain.BadRequest(domain.CodeValidationFailed, msgs...)
}

// fieldPath drops the root struct name and embedded Go types:
// "PlantationInput.contacts[0].ChildRef.kind" -> "contacts[0].kind".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) < 2 {
		return fe.Field()
	}
	out := parts[1:][:0]
	for _, p := range parts[1:] {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fe.Field()
	}
	return strings.Join(out, ".")
}

func fieldMessage(fe validator.FieldError) string {
	f := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return f + " should not be empty"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", f, fe.Param())
	case "email":
		return f + " must be an email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", f, fe.Tag())
}
