package keycloak

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches any *StatusError carrying 404.
	ErrNotFound = errors.New("keycloak: not found")
	// ErrUnavailable wraps transport failures (dial, TLS, timeouts, cancelled contexts).
	ErrUnavailable = errors.New("keycloak: unavailable")
)

const maxErrorBody = 512

// StatusError is returned for any non-2xx directory response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("keycloak: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("keycloak: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func readStatusError(resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
