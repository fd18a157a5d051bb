// Package suite runs repository tests against a disposable redis container.
package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	// containerLifetime is a hard stop in seconds for containers a crashed test leaves behind.
	containerLifetime = 120
	startupTimeout    = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	// Addr is the host:port the container's redis listens on.
	Addr    string
	Storage *redis.Client
}

// New - gives the test an empty redis. The test is skipped with -short or without docker.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("redis suite skipped in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	pool := dockerPool(t)
	resource := startRedis(t, pool)
	addr := resource.GetHostPort(redisPort)
	client := connect(ctx, t, pool, resource, addr)

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			logger.Warn("could not close redis client", "error", err)
		}

		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not remove redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Addr:    addr,
		Storage: client,
	}
}

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	pool.MaxWait = startupTimeout

	return pool
}

func startRedis(t *testing.T, pool *dockertest.Pool) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	// only fails for a container that is already gone
	_ = resource.Expire(containerLifetime)

	return resource
}

// connect - waits until redis accepts connections and returns an empty database.
func connect(ctx context.Context, t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource, addr string) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		_ = pool.Purge(resource)
		t.Fatalf("redis never became ready: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		_ = pool.Purge(resource)
		t.Fatalf("could not flush redis: %v", err)
	}

	return client
}
