package directory

import (
	"errors"
	"fmt"
)

// ErrDecode is returned when the search response body is not valid JSON.
var ErrDecode = errors.New("decode search response")

// StatusError is returned when the directory API answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("directory api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("directory api: unexpected status %d: %s", e.Code, e.Body)
}
