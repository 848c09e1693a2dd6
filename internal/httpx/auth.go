package httpx

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dastkar/rugshop/internal/redisx"
)

// AdminAuth guards the admin routes. The token itself is issued by the auth
// service; here we only compare it and consult the Redis revocation set, so
// a revoked token stays dead across restarts and instances.
type AdminAuth struct {
	Token    string
	TokenTTL time.Duration
	Redis    *redis.Client
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			failMsg(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if a.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.Token)) != 1 {
			failMsg(w, http.StatusForbidden, "Admin access required")
			return
		}
		if a.Redis != nil {
			key := fmt.Sprintf(redisx.KeyRevokedToken, tokenDigest(token))
			if revoked, _ := redisx.Exists(r.Context(), a.Redis, key); revoked {
				failMsg(w, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Logout revokes the presented token for its remaining lifetime.
func (a *AdminAuth) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		failMsg(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	key := fmt.Sprintf(redisx.KeyRevokedToken, tokenDigest(token))
	if err := a.Redis.Set(r.Context(), key, "1", a.TokenTTL).Err(); err != nil {
		failMsg(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}
