package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

// SessionIDHeader carries the anonymous cart session between requests.
const SessionIDHeader = "X-Session-Id"

// Session mints a cart session id for first-time visitors and echoes it back
// on every response, so a client keeps one cart across guest and logged-in
// requests without cookies.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionIDHeader))
			if sessionID == "" || len(sessionID) > 128 {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithField(ctx, "session_id", sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
