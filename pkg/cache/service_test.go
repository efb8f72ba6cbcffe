package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis being unreachable must degrade to the fetcher, never fail the read.
func TestGetOrSetFallsBackWhenRedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	svc := NewService(client)

	type payload struct {
		Name string `json:"name"`
	}

	var got payload
	err := svc.GetOrSet(context.Background(), "trips:test", time.Minute, func() (interface{}, error) {
		return payload{Name: "fetched"}, nil
	}, &got)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if got.Name != "fetched" {
		t.Errorf("got %q, want %q", got.Name, "fetched")
	}
}
