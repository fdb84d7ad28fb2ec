// Package scraper crawls a site from its sitemap: URL discovery, headless
// page rendering, content extraction, and handoff to the indexer.
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

const defaultConcurrency = 10

// skippedExtensions are assets a sitemap sometimes lists that carry no
// indexable text.
var skippedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {},
	".pdf": {}, ".zip": {}, ".mp4": {}, ".mp3": {}, ".css": {}, ".js": {},
}

// Indexer stores a scraped page and its chunks.
type Indexer interface {
	Index(ctx context.Context, page store.Page) (int64, error)
}

// SourceStore tracks crawl state per sitemap source.
type SourceStore interface {
	SetSourceCrawling(ctx context.Context, id int64) error
	FinishSource(ctx context.Context, id int64, pagesFound int, crawlErr error) error
	MarkPageFailed(ctx context.Context, pageURL string) error
}

// Reporter receives live crawl progress. Implementations must be safe for
// concurrent use.
type Reporter interface {
	CrawlStarted(ctx context.Context, sourceID int64, totalURLs int)
	PageScraped(ctx context.Context, sourceID int64, pageURL string)
	PageFailed(ctx context.Context, sourceID int64, pageURL string)
	CrawlFinished(ctx context.Context, sourceID int64)
}

// Crawler runs full sitemap crawls with bounded concurrency.
type Crawler struct {
	sitemaps    *SitemapClient
	fetcher     PageFetcher
	indexer     Indexer
	sources     SourceStore
	reporter    Reporter
	logger      *log.Logger
	concurrency int
}

func NewCrawler(sitemaps *SitemapClient, fetcher PageFetcher, indexer Indexer, sources SourceStore, reporter Reporter, logger *log.Logger, concurrency int) *Crawler {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Crawler{
		sitemaps:    sitemaps,
		fetcher:     fetcher,
		indexer:     indexer,
		sources:     sources,
		reporter:    reporter,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Crawl discovers the source's page URLs and scrapes them all. It returns the
// number of pages successfully indexed; per-page failures are recorded and
// do not abort the crawl.
func (c *Crawler) Crawl(ctx context.Context, sourceID int64, sourceURL string) (int, error) {
	if err := c.sources.SetSourceCrawling(ctx, sourceID); err != nil {
		return 0, fmt.Errorf("scraper: mark crawling: %w", err)
	}

	urls, err := c.sitemaps.ExtractURLs(ctx, sourceURL)
	if err != nil {
		_ = c.sources.FinishSource(ctx, sourceID, 0, err)
		return 0, err
	}
	urls = FilterURLs(sourceURL, urls)
	c.logger.Printf("[SCRAPER] source %d: %d URLs to scrape", sourceID, len(urls))
	c.reporter.CrawlStarted(ctx, sourceID, len(urls))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indexed int
	)
	jobs := make(chan string)
	for i := 0; i < c.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageURL := range jobs {
				if c.scrapeOne(ctx, sourceID, pageURL) {
					mu.Lock()
					indexed++
					mu.Unlock()
				}
			}
		}()
	}

	for _, u := range urls {
		select {
		case jobs <- u:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			_ = c.sources.FinishSource(ctx, sourceID, indexed, ctx.Err())
			c.reporter.CrawlFinished(ctx, sourceID)
			return indexed, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := c.sources.FinishSource(ctx, sourceID, indexed, nil); err != nil {
		return indexed, fmt.Errorf("scraper: finish source: %w", err)
	}
	c.reporter.CrawlFinished(ctx, sourceID)
	return indexed, nil
}

func (c *Crawler) scrapeOne(ctx context.Context, sourceID int64, pageURL string) bool {
	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Printf("[SCRAPER] fetch %s: %v", pageURL, err)
		_ = c.sources.MarkPageFailed(ctx, pageURL)
		c.reporter.PageFailed(ctx, sourceID, pageURL)
		return false
	}
	if _, err := c.indexer.Index(ctx, page); err != nil {
		c.logger.Printf("[SCRAPER] index %s: %v", pageURL, err)
		_ = c.sources.MarkPageFailed(ctx, pageURL)
		c.reporter.PageFailed(ctx, sourceID, pageURL)
		return false
	}
	c.reporter.PageScraped(ctx, sourceID, pageURL)
	return true
}

// FilterURLs keeps URLs on the source's host and drops asset links. An
// unparsable source URL disables the host check rather than dropping
// everything.
func FilterURLs(sourceURL string, urls []string) []string {
	var host string
	if su, err := url.Parse(sourceURL); err == nil {
		host = su.Hostname()
	}

	var out []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if host != "" && u.Hostname() != host {
			continue
		}
		ext := strings.ToLower(path.Ext(u.Path))
		if _, skip := skippedExtensions[ext]; skip {
			continue
		}
		out = append(out, raw)
	}
	return out
}
