package progress_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/moin143264/UrlChatbotBackend/internal/progress"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redisC, err := tcRedis.RunContainer(ctx, testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")))
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCrawlProgressLifecycle(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	tracker := progress.NewTracker(client)

	tracker.CrawlStarted(ctx, 42, 4)
	tracker.PageScraped(ctx, 42, "https://example.com/a")
	tracker.PageScraped(ctx, 42, "https://example.com/b")
	tracker.PageFailed(ctx, 42, "https://example.com/c")

	snap, ok, err := tracker.Get(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected crawl state")
	}
	if snap.Status != progress.StatusCrawling || snap.Total != 4 || snap.Scraped != 2 || snap.Failed != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Percent != 75 {
		t.Fatalf("percent = %v, want 75", snap.Percent)
	}

	tracker.CrawlFinished(ctx, 42)
	snap, _, err = tracker.Get(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Status != progress.StatusDone {
		t.Fatalf("status = %q", snap.Status)
	}

	// Restarting a crawl resets the counters.
	tracker.CrawlStarted(ctx, 42, 10)
	snap, _, err = tracker.Get(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Scraped != 0 || snap.Failed != 0 || snap.Total != 10 {
		t.Fatalf("snapshot after restart = %+v", snap)
	}

	if _, ok, _ := tracker.Get(ctx, 999); ok {
		t.Fatal("unknown crawl should have no state")
	}
}
