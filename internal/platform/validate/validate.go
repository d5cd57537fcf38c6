// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// It is used in the service layer only. Handlers decode, services validate.
package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent API.
//
// Validator is not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// MaxBytes fails if the encoded length exceeds max bytes.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d bytes", max))
	}
	return v
}

// NoControl fails if the value contains control characters or is not valid UTF-8.
func (v *Validator) NoControl(field, value string) *Validator {
	if !utf8.ValidString(value) || strings.IndexFunc(value, unicode.IsControl) >= 0 {
		v.add(field, "Must not contain control characters")
	}
	return v
}

// UUID fails if the value is not a canonical UUID string.
func (v *Validator) UUID(field, value string) *Validator {
	if len(value) != 36 || uuid.Validate(value) != nil {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// UUIDs applies [Validator.UUID] to each element and caps the list length.
func (v *Validator) UUIDs(field string, values []string, max int) *Validator {
	if len(values) > max {
		v.add(field, fmt.Sprintf("At most %d identifiers", max))
		return v
	}
	for _, value := range values {
		if len(value) != 36 || uuid.Validate(value) != nil {
			v.add(field, fmt.Sprintf("Invalid identifier %q", value))
		}
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("limit", limit > 100, "Must be at most 100")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
