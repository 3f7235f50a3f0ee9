// Package apperr defines errors that handlers return to choose the HTTP
// response themselves: status code, body and extra headers.
package apperr

import (
	"errors"
	"net/http"
	"strings"
	"sync"
)

// HTTPError is a handler error with a caller-chosen response.
// When Body is nil the standard error envelope is written with Code and Message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Body    any
	Headers map[string]string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// New returns an HTTPError with a code derived from the status text,
// e.g. 404 -> NOT_FOUND.
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Code: codeFor(status), Message: message}
}

func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

// WithBody returns an HTTPError whose body is written as-is.
func WithBody(status int, body any) *HTTPError {
	e := New(status, "")
	e.Body = body
	return e
}

// WithHeader returns a copy of e with header k set to v.
func (e *HTTPError) WithHeader(k, v string) *HTTPError {
	cp := *e
	cp.Headers = make(map[string]string, len(e.Headers)+1)
	for hk, hv := range e.Headers {
		cp.Headers[hk] = hv
	}
	cp.Headers[k] = v
	return &cp
}

func codeFor(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	text = strings.NewReplacer(" ", "_", "'", "", "-", "_").Replace(text)
	return strings.ToUpper(text)
}

type mapper struct {
	match func(error) (int, any, bool)
}

// Registry maps application error types to responses.
type Registry struct {
	mu      sync.RWMutex
	mappers []mapper
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a mapper for errors of type E. Mappers are tried in
// registration order and matched with errors.As.
func Register[E error](r *Registry, fn func(E) (int, any)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers = append(r.mappers, mapper{match: func(err error) (int, any, bool) {
		var target E
		if !errors.As(err, &target) {
			return 0, nil, false
		}
		status, body := fn(target)
		return status, body, true
	}})
}

// Lookup returns the response for err from the first matching mapper.
func (r *Registry) Lookup(err error) (int, any, bool) {
	if r == nil || err == nil {
		return 0, nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.mappers {
		if status, body, ok := m.match(err); ok {
			return status, body, true
		}
	}
	return 0, nil, false
}
