// Package store is the Postgres persistence layer: scraped pages and their
// search chunks, registered sitemap sources, user accounts and chat history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Store wraps the Postgres connection. All methods are safe for concurrent
// use; per-page chunk replacement runs inside a single transaction so readers
// never observe a page stripped of its chunks mid-rewrite.
type Store struct {
	DB *sql.DB
}

// Page lifecycle statuses.
const (
	PageStatusPending = "pending"
	PageStatusScraped = "scraped"
	PageStatusFailed  = "failed"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("store: not found")

// Page is one scraped URL. URL is the identity: re-scraping upserts in place.
type Page struct {
	ID              int64
	URL             string
	Title           string
	Content         string
	Headings        string // newline-separated "H1: ..." lines
	MetaDescription string
	Keywords        string
	ImageURL        string
	Status          string
	ScrapedAt       time.Time
}

// Chunk is one stored search unit owned by a page.
type Chunk struct {
	ID       int64
	PageID   int64
	Text     string
	Type     string
	Priority int
	Order    int
}

// New opens a Postgres connection with the given DSN and verifies it.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// UpsertPageWithChunks writes the page record (insert or update keyed on URL),
// drops every chunk the page previously owned and inserts the new set, all in
// one transaction. The page comes out with status scraped. Any failure rolls
// the whole operation back: a page is never committed without its chunks.
func (s *Store) UpsertPageWithChunks(ctx context.Context, page Page, chunks []Chunk) (pageID int64, err error) {
	if strings.TrimSpace(page.URL) == "" {
		return 0, errors.New("store: page url required")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
INSERT INTO scraped_pages (url, title, content, headings, meta_description, keywords, image_url, status, scraped_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
ON CONFLICT (url) DO UPDATE SET
  title = EXCLUDED.title,
  content = EXCLUDED.content,
  headings = EXCLUDED.headings,
  meta_description = EXCLUDED.meta_description,
  keywords = EXCLUDED.keywords,
  image_url = EXCLUDED.image_url,
  status = EXCLUDED.status,
  scraped_at = NOW()
RETURNING id`,
		page.URL, page.Title, page.Content, page.Headings,
		page.MetaDescription, page.Keywords, page.ImageURL, PageStatusScraped,
	).Scan(&pageID)
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM content_chunks WHERE page_id=$1`, pageID); err != nil {
		return 0, err
	}
	for _, ch := range chunks {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO content_chunks (page_id, chunk_text, chunk_type, priority, chunk_order)
VALUES ($1,$2,$3,$4,$5)`,
			pageID, ch.Text, ch.Type, ch.Priority, ch.Order); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return pageID, nil
}

// MarkPageFailed records a failed scrape attempt for the URL, creating the
// row if the URL was never seen.
func (s *Store) MarkPageFailed(ctx context.Context, url string) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO scraped_pages (url, status, scraped_at) VALUES ($1,$2,NOW())
ON CONFLICT (url) DO UPDATE SET status = EXCLUDED.status, scraped_at = NOW()`,
		url, PageStatusFailed)
	return err
}

// GetPageByURL returns the page for url, or ErrNotFound.
func (s *Store) GetPageByURL(ctx context.Context, url string) (Page, error) {
	var p Page
	err := s.DB.QueryRowContext(ctx, `
SELECT id, url, COALESCE(title,''), COALESCE(content,''), COALESCE(headings,''),
       COALESCE(meta_description,''), COALESCE(keywords,''), COALESCE(image_url,''), status, scraped_at
FROM scraped_pages WHERE url=$1`, url).Scan(
		&p.ID, &p.URL, &p.Title, &p.Content, &p.Headings,
		&p.MetaDescription, &p.Keywords, &p.ImageURL, &p.Status, &p.ScrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, ErrNotFound
	}
	return p, err
}

// ChunksByPage returns the stored chunks for a page ordered by descending
// priority, then insertion order.
func (s *Store) ChunksByPage(ctx context.Context, pageID int64) ([]Chunk, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, page_id, chunk_text, chunk_type, priority, chunk_order
FROM content_chunks WHERE page_id=$1
ORDER BY priority DESC, chunk_order, id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var ch Chunk
		if err := rows.Scan(&ch.ID, &ch.PageID, &ch.Text, &ch.Type, &ch.Priority, &ch.Order); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}
