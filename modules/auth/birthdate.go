package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// birthdate accepts a calendar date ("2006-01-02") or an RFC 3339
// timestamp. An empty string or null leaves it unset.
type birthdate time.Time

func (b *birthdate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("dob must be a date string")
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*b = birthdate(t)
			return nil
		}
	}
	return fmt.Errorf("dob %q is not a date", s)
}
