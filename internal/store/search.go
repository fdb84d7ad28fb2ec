package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// SearchRow is one page hit from a single retrieval strategy, before the
// engine merges strategies and dedups URLs.
type SearchRow struct {
	PageID          int64
	URL             string
	Title           string
	MetaDescription string
	Snippet         string
	Score           float64
}

// businessSuffixPattern boosts chunks that mention a company-ish word.
// Mirrors the suffix vocabulary the chunker detects companies with.
const businessSuffixPattern = `\y(Services|Tech|Technologies|Management|Plus|Digital|Corp|Inc|Ltd|LLC|Group|Solutions|Systems|Company)\y`

// SearchChunks is the primary retrieval query. Each matching chunk
// contributes a weighted score: chunk-type weight (title 20, heading 15,
// content 10), synthetic-summary boosts (aggregate company chunk +30,
// individual +25, business-suffix mention +15), exact substring +25, page
// title hit +20, meta description hit +12 and a full-text signal +15. The
// per-page sum is multiplied by the distinct matching chunk count, so many
// corroborating chunks outrank one strong hit. Snippets concatenate matching
// chunk texts in descending priority order.
func (s *Store) SearchChunks(ctx context.Context, query string, limit int) ([]SearchRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
WITH matches AS (
    SELECT cc.id, cc.page_id, cc.chunk_text, cc.priority,
        (CASE WHEN cc.chunk_type = 'title' THEN 20 ELSE 0 END) +
        (CASE WHEN cc.chunk_type = 'heading' THEN 15 ELSE 0 END) +
        (CASE WHEN cc.chunk_type = 'content' THEN 10 ELSE 0 END) +
        (CASE WHEN cc.chunk_text LIKE 'Companies:%' THEN 30 ELSE 0 END) +
        (CASE WHEN cc.chunk_text LIKE 'Company:%' THEN 25 ELSE 0 END) +
        (CASE WHEN cc.chunk_text ~* $2 THEN 15 ELSE 0 END) +
        (CASE WHEN cc.chunk_text ILIKE '%' || $1 || '%' THEN 25 ELSE 0 END) +
        (CASE WHEN to_tsvector('english', cc.chunk_text) @@ plainto_tsquery('english', $1) THEN 15 ELSE 0 END) AS weight
    FROM content_chunks cc
    WHERE cc.chunk_text ILIKE '%' || $1 || '%'
       OR to_tsvector('english', cc.chunk_text) @@ plainto_tsquery('english', $1)
)
SELECT page_id, url, title, meta_description, snippet, score FROM (
    SELECT sp.id AS page_id, sp.url, COALESCE(sp.title,'') AS title,
           COALESCE(sp.meta_description,'') AS meta_description,
           string_agg(m.chunk_text, ' | ' ORDER BY m.priority DESC, m.id) AS snippet,
           SUM(m.weight
               + CASE WHEN sp.title ILIKE '%' || $1 || '%' THEN 20 ELSE 0 END
               + CASE WHEN sp.meta_description ILIKE '%' || $1 || '%' THEN 12 ELSE 0 END
           ) * COUNT(DISTINCT m.id) AS score
    FROM matches m
    JOIN scraped_pages sp ON sp.id = m.page_id
    GROUP BY sp.id, sp.url, sp.title, sp.meta_description
) ranked
WHERE score > 0
ORDER BY score DESC
LIMIT $3`, query, businessSuffixPattern, limit)
	if err != nil {
		return nil, err
	}
	return scanSearchRows(rows)
}

// SearchFulltext is the second strategy: whole-page full-text search over
// title, content, meta description and keywords, scaled so its scores stay
// comparable to chunk scores. Pages already found by the chunk strategy are
// excluded.
func (s *Store) SearchFulltext(ctx context.Context, query string, excludeURLs []string, limit int) ([]SearchRow, error) {
	// A nil slice encodes as SQL NULL, and url <> ALL(NULL) rejects every
	// row. Send an empty array instead so the predicate is vacuously true.
	exclude := append([]string{}, excludeURLs...)
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, url, COALESCE(title,''), COALESCE(meta_description,''),
       LEFT(COALESCE(content,''), 300) AS snippet,
       ts_rank(
           to_tsvector('english', COALESCE(title,'') || ' ' || COALESCE(content,'') || ' ' || COALESCE(meta_description,'') || ' ' || COALESCE(keywords,'')),
           plainto_tsquery('english', $1)
       ) * 8 AS score
FROM scraped_pages
WHERE to_tsvector('english', COALESCE(title,'') || ' ' || COALESCE(content,'') || ' ' || COALESCE(meta_description,'') || ' ' || COALESCE(keywords,''))
      @@ plainto_tsquery('english', $1)
  AND url <> ALL($2)
ORDER BY score DESC
LIMIT $3`, query, pq.Array(exclude), limit)
	if err != nil {
		return nil, err
	}
	return scanSearchRows(rows)
}

// SearchPattern is the last-resort strategy: plain substring matching of the
// given terms with a flat score of 1, ordered by where a match landed (title
// before headings before body). Term filtering is the caller's job.
func (s *Store) SearchPattern(ctx context.Context, terms []string, limit int) ([]SearchRow, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		patterns = append(patterns, "%"+t+"%")
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, url, COALESCE(title,''), COALESCE(meta_description,''),
       LEFT(COALESCE(content,''), 300) AS snippet,
       1::float8 AS score
FROM scraped_pages
WHERE title ILIKE ANY($1)
   OR headings ILIKE ANY($1)
   OR content ILIKE ANY($1)
ORDER BY CASE
    WHEN title ILIKE ANY($1) THEN 3
    WHEN headings ILIKE ANY($1) THEN 2
    ELSE 1
END DESC, scraped_at DESC
LIMIT $2`, pq.Array(patterns), limit)
	if err != nil {
		return nil, err
	}
	return scanSearchRows(rows)
}

func scanSearchRows(rows *sql.Rows) ([]SearchRow, error) {
	defer rows.Close()
	var out []SearchRow
	for rows.Next() {
		var r SearchRow
		if err := rows.Scan(&r.PageID, &r.URL, &r.Title, &r.MetaDescription, &r.Snippet, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
