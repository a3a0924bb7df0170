package middleware

import (
	"net/http"
	"strings"

	"github.com/recrutment/hireai/internal/pkg/reqctx"
)

// HeaderActorUserID carries the authenticated subject, set by the edge after
// token validation. Requests without it act as SYSTEM.
const HeaderActorUserID = "X-Actor-User-Id"

func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(HeaderActorUserID)); id != "" {
			r = r.WithContext(reqctx.WithActorUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
