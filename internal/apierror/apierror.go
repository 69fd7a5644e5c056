package apierror

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is returned when the server answers with a non-2xx status.
type Error struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
	Request    *http.Request
	Response   *http.Response
}

func (e *Error) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("%s %q: %d %s %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Temporary reports whether the request may succeed if retried.
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
