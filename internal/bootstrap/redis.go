package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis parses the URL and pings the server. Like OpenDB, a client whose
// server is down is returned with an *UnreachableError.
func OpenRedis(ctx context.Context, url string, pingTO time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if pingTO == 0 {
		pingTO = 2 * time.Second
	}

	client := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, pingTO)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		return client, &UnreachableError{Service: "redis", Err: err}
	}
	return client, nil
}
