package redisx

import "time"

const (
	// Revoked admin tokens: auth:revoked:{sha256(token)} -> "1".
	// TTL matches the token lifetime so entries expire with the token.
	KeyRevokedToken = "auth:revoked:%s"

	// Order status cache: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%s"

	// Mailer event dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
