package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestRedisClient starts an in-memory server shared by the cache,
// idempotency and pub/sub adapters under test. The client is closed with
// the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func requireTTL(t *testing.T, mr *miniredis.Miniredis, key string, want time.Duration) {
	t.Helper()

	if !mr.Exists(key) {
		t.Fatalf("expected key %q to exist", key)
	}
	if got := mr.TTL(key); got != want {
		t.Fatalf("expected TTL %v on %q, got %v", want, key, got)
	}
}
