package isapi

import (
	"errors"
	"fmt"
	"strings"
)

type httpStatusError struct {
	statusCode int
	status     string
	body       string
}

func (e *httpStatusError) Error() string {
	if strings.TrimSpace(e.body) == "" {
		return fmt.Sprintf("sync request failed: %s", e.status)
	}
	return fmt.Sprintf("sync request failed: %s: %s", e.status, e.body)
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	return &httpStatusError{
		statusCode: statusCode,
		status:     status,
		body:       strings.TrimSpace(string(body)),
	}
}

// IsStatusError reports whether err is a non-2xx response error and, if
// so, its status code. Callers use it to tell application-level rejects
// apart from transport failures.
func IsStatusError(err error) (int, bool) {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return httpErr.statusCode, true
	}
	return 0, false
}
