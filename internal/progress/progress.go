// Package progress tracks live crawl state in Redis so status polling does
// not hit Postgres on every request.
package progress

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyTTL keeps finished crawl counters around long enough for the UI to read
// them, then lets them expire.
const keyTTL = 24 * time.Hour

const (
	StatusCrawling = "crawling"
	StatusDone     = "done"
)

// Snapshot is the current state of one crawl.
type Snapshot struct {
	SourceID int64   `json:"source_id"`
	Status   string  `json:"status"`
	Total    int     `json:"total_urls"`
	Scraped  int     `json:"scraped"`
	Failed   int     `json:"failed"`
	Percent  float64 `json:"percent"`
}

// Tracker implements crawl progress reporting on Redis hashes.
type Tracker struct {
	client *redis.Client
}

func NewTracker(client *redis.Client) *Tracker {
	return &Tracker{client: client}
}

func crawlKey(sourceID int64) string {
	return fmt.Sprintf("crawl:%d", sourceID)
}

func (t *Tracker) CrawlStarted(ctx context.Context, sourceID int64, totalURLs int) {
	key := crawlKey(sourceID)
	pipe := t.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"status", StatusCrawling,
		"total", totalURLs,
		"scraped", 0,
		"failed", 0,
	)
	pipe.Expire(ctx, key, keyTTL)
	_, _ = pipe.Exec(ctx)
}

func (t *Tracker) PageScraped(ctx context.Context, sourceID int64, _ string) {
	_ = t.client.HIncrBy(ctx, crawlKey(sourceID), "scraped", 1).Err()
}

func (t *Tracker) PageFailed(ctx context.Context, sourceID int64, _ string) {
	_ = t.client.HIncrBy(ctx, crawlKey(sourceID), "failed", 1).Err()
}

func (t *Tracker) CrawlFinished(ctx context.Context, sourceID int64) {
	_ = t.client.HSet(ctx, crawlKey(sourceID), "status", StatusDone).Err()
}

// Get returns the crawl snapshot. A source with no Redis state returns
// (Snapshot{}, false, nil).
func (t *Tracker) Get(ctx context.Context, sourceID int64) (Snapshot, bool, error) {
	vals, err := t.client.HGetAll(ctx, crawlKey(sourceID)).Result()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("progress: read crawl %d: %w", sourceID, err)
	}
	if len(vals) == 0 {
		return Snapshot{}, false, nil
	}

	snap := Snapshot{SourceID: sourceID, Status: vals["status"]}
	snap.Total, _ = strconv.Atoi(vals["total"])
	snap.Scraped, _ = strconv.Atoi(vals["scraped"])
	snap.Failed, _ = strconv.Atoi(vals["failed"])
	if snap.Total > 0 {
		snap.Percent = float64(snap.Scraped+snap.Failed) / float64(snap.Total) * 100
	}
	return snap, true, nil
}

// Noop is used when Redis is not configured; crawls still run, status polling
// just falls back to the database.
type Noop struct{}

func (Noop) CrawlStarted(context.Context, int64, int)   {}
func (Noop) PageScraped(context.Context, int64, string) {}
func (Noop) PageFailed(context.Context, int64, string)  {}
func (Noop) CrawlFinished(context.Context, int64)       {}

func (Noop) Get(context.Context, int64) (Snapshot, bool, error) {
	return Snapshot{}, false, nil
}
