package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
)

// Required fails on blank strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: FieldError{Field: field, Message: "field is required"},
	}
}

// Email accepts a bare addr-spec with a dotted domain.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			value = strings.TrimSpace(value)
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			at := strings.LastIndexByte(value, '@')
			domain := value[at+1:]
			if at < 1 || !strings.Contains(domain, ".") {
				return false
			}
			return !slices.Contains(strings.Split(domain, "."), "")
		},
		Error: FieldError{Field: field, Message: "must be a valid email address"},
	}
}

// MaxLen fails when value is longer than n bytes.
func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= n },
		Error: FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", n)},
	}
}

// MinLen fails when value is shorter than n bytes.
func MinLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return len(value) >= n },
		Error: FieldError{Field: field, Message: fmt.Sprintf("must be at least %d characters long", n)},
	}
}

// Birthdate requires a set date that is not after now and within 150 years.
func Birthdate(field string, value, now time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.IsZero() && !value.After(now) && value.After(now.AddDate(-150, 0, 0))
		},
		Error: FieldError{Field: field, Message: "must be a past date"},
	}
}

// After requires value to be set and strictly later than ref.
func After(field string, value, ref time.Time) Rule {
	return Rule{
		Check: func() bool { return !value.IsZero() && value.After(ref) },
		Error: FieldError{Field: field, Message: "must be after " + ref.Format(time.RFC3339)},
	}
}

// SetTime fails on the zero time.
func SetTime(field string, value time.Time) Rule {
	return Rule{
		Check: func() bool { return !value.IsZero() },
		Error: FieldError{Field: field, Message: "must be an RFC 3339 timestamp"},
	}
}

// Check wraps an arbitrary predicate.
func Check(field, message string, ok bool) Rule {
	return Rule{
		Check: func() bool { return ok },
		Error: FieldError{Field: field, Message: message},
	}
}
