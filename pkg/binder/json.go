package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxJSONSize caps request bodies read by JSON.
const MaxJSONSize = 1 << 20

// JSON returns a binder that decodes the request body into v. A missing
// Content-Type is accepted; any other media type than application/json is
// rejected. Unknown fields are ignored.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, ct)
			}
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		if len(body) > MaxJSONSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, MaxJSONSize)
		}
		if len(body) == 0 {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}

		if err := json.Unmarshal(body, v); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return fmt.Errorf("%w: field %s must be %s", ErrInvalidBody, typeErr.Field, typeErr.Type)
			}
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return nil
	}
}
