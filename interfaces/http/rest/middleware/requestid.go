package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"canvas-backend/pkg/common"
)

// PropagateRequestID copies the request ID into the application context and
// echoes it back to the client
func PropagateRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
			r = r.WithContext(common.WithRequestID(r.Context(), requestID))
		}
		next.ServeHTTP(w, r)
	})
}
