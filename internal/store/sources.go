package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Sitemap source crawl statuses.
const (
	SourceStatusPending  = "pending"
	SourceStatusCrawling = "crawling"
	SourceStatusDone     = "done"
	SourceStatusFailed   = "failed"
)

// SitemapSource is a registered website whose sitemap gets crawled.
type SitemapSource struct {
	ID         int64
	URL        string
	Status     string
	PagesFound int
	LastError  string
	CrawledAt  sql.NullTime
	CreatedAt  time.Time
}

// Stats is the aggregate index state reported by the stats endpoint.
type Stats struct {
	TotalPages   int64
	ScrapedPages int64
	FailedPages  int64
	TotalChunks  int64
	Sources      int64
	Users        int64
	ChatMessages int64
	LastScrape   sql.NullTime
}

// UpsertSitemapSource registers a sitemap URL (or resets an existing one to
// pending) and returns its id.
func (s *Store) UpsertSitemapSource(ctx context.Context, url string) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO sitemap_sources (url, status) VALUES ($1,$2)
ON CONFLICT (url) DO UPDATE SET status = EXCLUDED.status, last_error = ''
RETURNING id`, url, SourceStatusPending).Scan(&id)
	return id, err
}

// GetSitemapSource returns one source by id, or ErrNotFound.
func (s *Store) GetSitemapSource(ctx context.Context, id int64) (SitemapSource, error) {
	var src SitemapSource
	err := s.DB.QueryRowContext(ctx, `
SELECT id, url, status, pages_found, COALESCE(last_error,''), crawled_at, created_at
FROM sitemap_sources WHERE id=$1`, id).
		Scan(&src.ID, &src.URL, &src.Status, &src.PagesFound, &src.LastError, &src.CrawledAt, &src.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SitemapSource{}, ErrNotFound
	}
	return src, err
}

// ListSitemapSources returns all registered sources, newest first.
func (s *Store) ListSitemapSources(ctx context.Context) ([]SitemapSource, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, url, status, pages_found, COALESCE(last_error,''), crawled_at, created_at
FROM sitemap_sources ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SitemapSource
	for rows.Next() {
		var src SitemapSource
		if err := rows.Scan(&src.ID, &src.URL, &src.Status, &src.PagesFound, &src.LastError, &src.CrawledAt, &src.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// SetSourceCrawling marks a source as in progress.
func (s *Store) SetSourceCrawling(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `
UPDATE sitemap_sources SET status=$2 WHERE id=$1`, id, SourceStatusCrawling)
	return err
}

// FinishSource records the crawl outcome for a source.
func (s *Store) FinishSource(ctx context.Context, id int64, pagesFound int, crawlErr error) error {
	status := SourceStatusDone
	msg := ""
	if crawlErr != nil {
		status = SourceStatusFailed
		msg = crawlErr.Error()
	}
	_, err := s.DB.ExecContext(ctx, `
UPDATE sitemap_sources SET status=$2, pages_found=$3, last_error=$4, crawled_at=NOW() WHERE id=$1`,
		id, status, pagesFound, msg)
	return err
}

// IndexStats returns aggregate counts over pages, chunks and sources.
func (s *Store) IndexStats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.DB.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM scraped_pages),
    (SELECT COUNT(*) FROM scraped_pages WHERE status=$1),
    (SELECT COUNT(*) FROM scraped_pages WHERE status=$2),
    (SELECT COUNT(*) FROM content_chunks),
    (SELECT COUNT(*) FROM sitemap_sources),
    (SELECT COUNT(*) FROM users),
    (SELECT COUNT(*) FROM chat_history),
    (SELECT MAX(scraped_at) FROM scraped_pages)`,
		PageStatusScraped, PageStatusFailed).
		Scan(&st.TotalPages, &st.ScrapedPages, &st.FailedPages, &st.TotalChunks, &st.Sources, &st.Users, &st.ChatMessages, &st.LastScrape)
	return st, err
}
