package http

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Header is a single response header line.
type Header struct {
	Name  string
	Value string
}

type Response struct {
	StatusCode int
	Status     string
	// Headers are ordered by canonical name; repeated headers keep the
	// order the server sent them in.
	Headers  []Header
	Body     []byte
	Duration time.Duration
}

// Header returns the first value of the named header, case-insensitively.
func (r *Response) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			return h.Value
		}
	}
	return ""
}

// Reason returns the reason phrase, e.g. "Not Found" for "404 Not Found".
func (r *Response) Reason() string {
	code := strconv.Itoa(r.StatusCode)
	if reason, ok := strings.CutPrefix(r.Status, code+" "); ok {
		return reason
	}
	if r.Status != "" && r.Status != code {
		return r.Status
	}
	return http.StatusText(r.StatusCode)
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

func IsRedirect(code int) bool {
	return code >= 300 && code < 400
}

func IsClientError(code int) bool {
	return code >= 400 && code < 500
}

func IsServerError(code int) bool {
	return code >= 500 && code < 600
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

func orderedHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]Header, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			headers = append(headers, Header{Name: name, Value: v})
		}
	}
	return headers
}
