package httpx

import (
	"context"
	"net/http"
)

type ctxKey int

const sessionKey ctxKey = 1

// WithSession extracts the opaque guest session id from the session_id
// cookie or the X-Session-Id header. The id is issued elsewhere; the cart
// only needs it present.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie("session_id"); err == nil {
			sid = c.Value
		}
		if sid == "" {
			sid = r.Header.Get("X-Session-Id")
		}
		if sid == "" {
			failMsg(w, http.StatusBadRequest, "Invalid sessionId")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sid)))
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sessionKey).(string)
	return sid
}
