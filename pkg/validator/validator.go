// Package validator applies field rules to request payloads and collects the
// failures into a single ValidationErrors value.
//
//	err := validator.Apply(
//		validator.Required("email", req.Email),
//		validator.Email("email", req.Email),
//	)
//
// Each rule is evaluated independently, so a response can report every
// offending field at once.
package validator

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed rule in evaluation order.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed at least one rule.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Fields maps each failed field to its first message.
func (ve ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Rule is a deferred check bound to a field.
type Rule struct {
	Check func() bool
	Error FieldError
}

// Apply runs every rule and returns ValidationErrors when any failed.
func Apply(rules ...Rule) error {
	var ve ValidationErrors
	for _, r := range rules {
		if !r.Check() {
			ve = append(ve, r.Error)
		}
	}
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// Extract returns the ValidationErrors wrapped in err, if any.
func Extract(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
