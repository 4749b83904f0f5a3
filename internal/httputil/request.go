package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited; unknown fields are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// ParseOptionalJSON behaves like ParseJSON but treats an empty body as "no
// fields supplied" and leaves dest untouched
func ParseOptionalJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := ParseJSON(w, r, dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
