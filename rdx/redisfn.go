package rdx

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

const tokenHash = "tokens"

// New dials Redis using REDIS_ADDR. The client is constructed once in main
// and handed to whoever needs it (auth token cache, event emitter).
func New() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// SaveToken caches the active session token for a user so logout can revoke
// it server-side.
func SaveToken(ctx context.Context, conn *redis.Client, userID, token string) error {
	return conn.HSet(ctx, tokenHash, userID, token).Err()
}

func RevokeToken(ctx context.Context, conn *redis.Client, userID string) error {
	return conn.HDel(ctx, tokenHash, userID).Err()
}
