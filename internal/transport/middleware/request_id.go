package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/recrutment/hireai/internal/pkg/reqctx"
)

const (
	HeaderXRequestID     = "X-Request-Id"
	HeaderXCorrelationID = "X-Correlation-Id"

	maxRequestIDLen = 128
)

// RequestID propagates the caller's X-Request-Id (or X-Correlation-Id) and
// mints a new one when neither is usable. The id ends up as the
// correlationId of audit events emitted while serving the request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if !validRequestID(reqID) {
			reqID = r.Header.Get(HeaderXCorrelationID)
		}
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), reqID)))
	})
}

// validRequestID accepts short printable ASCII ids only; anything else would
// end up verbatim in logs and audit records.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
