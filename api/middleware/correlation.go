package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/olivegrove/eshop-backend/pkg/logger"
)

const correlationIDHeader = "X-Correlation-Id"

// CorrelationID accepts an inbound correlation id or mints one, echoes it on
// the response, and seeds both the logger and the plain context carrier so
// audit rows can pick it up.
func CorrelationID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(correlationIDHeader, id)

			ctx := logger.ContextWithCorrelationID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithCorrelationID(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
