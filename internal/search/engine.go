// Package search runs the layered retrieval cascade over the chunk index:
// chunk-priority search first, full-text page search to top results up, and a
// naive substring fallback reserved for infrastructure failures. Search never
// returns an error to its caller; degraded strategies are logged and the
// result is always a (possibly empty) list.
package search

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

// Strategy tags carried on results so callers can see where a hit came from.
const (
	StrategyChunk    = "chunk"
	StrategyFulltext = "fulltext"
	StrategyFallback = "fallback"
)

// minPatternTerm excludes tiny query words from the substring fallback, where
// they degenerate into match-everything wildcards.
const minPatternTerm = 3

// StageStatus records how one cascade stage ended. A stage that never ran
// stays pending.
type StageStatus int

const (
	StagePending StageStatus = iota
	StageSucceeded
	StageFailed
)

func (s StageStatus) String() string {
	switch s {
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Trace is the per-stage outcome of one search call.
type Trace struct {
	Chunk    StageStatus
	Fulltext StageStatus
	Pattern  StageStatus
}

// Result is one ranked page hit.
type Result struct {
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	MetaDescription string  `json:"meta_description,omitempty"`
	Snippet         string  `json:"snippet"`
	Score           float64 `json:"score"`
	Strategy        string  `json:"strategy"`
}

// Storage is the slice of the store the engine reads from.
type Storage interface {
	SearchChunks(ctx context.Context, query string, limit int) ([]store.SearchRow, error)
	SearchFulltext(ctx context.Context, query string, excludeURLs []string, limit int) ([]store.SearchRow, error)
	SearchPattern(ctx context.Context, terms []string, limit int) ([]store.SearchRow, error)
}

// Engine executes the cascade.
type Engine struct {
	storage      Storage
	logger       *log.Logger
	defaultLimit int
}

// New builds an Engine. defaultLimit applies when a caller passes limit <= 0.
func New(storage Storage, logger *log.Logger, defaultLimit int) *Engine {
	return &Engine{storage: storage, logger: logger, defaultLimit: defaultLimit}
}

// Search runs the strategies in fixed order and returns a deduplicated,
// score-descending result list:
//
//   - chunk search results come first;
//   - full-text search runs only when chunk search left free slots, excluding
//     pages already returned;
//   - the substring fallback runs only when both prior strategies failed with
//     a storage error, never on mere empty results.
//
// Strategy failures are swallowed and logged. An empty query matches nothing.
func (e *Engine) Search(ctx context.Context, query string, limit int) []Result {
	results, _ := e.SearchTrace(ctx, query, limit)
	return results
}

// SearchTrace is Search plus the per-stage cascade outcome.
func (e *Engine) SearchTrace(ctx context.Context, query string, limit int) ([]Result, Trace) {
	var trace Trace
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}, trace
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}

	results := make([]Result, 0, limit)
	seen := map[string]struct{}{}
	var foundURLs []string

	chunkRows, chunkErr := e.storage.SearchChunks(ctx, query, limit)
	if chunkErr != nil {
		trace.Chunk = StageFailed
		e.logger.Printf("chunk search failed, falling through: %v", chunkErr)
	} else {
		trace.Chunk = StageSucceeded
	}
	for _, row := range chunkRows {
		results = appendResult(results, seen, row, StrategyChunk)
		foundURLs = append(foundURLs, row.URL)
	}

	var fulltextErr error
	if len(results) < limit {
		var rows []store.SearchRow
		rows, fulltextErr = e.storage.SearchFulltext(ctx, query, foundURLs, limit-len(results))
		if fulltextErr != nil {
			trace.Fulltext = StageFailed
			e.logger.Printf("fulltext search failed, falling through: %v", fulltextErr)
		} else {
			trace.Fulltext = StageSucceeded
		}
		for _, row := range rows {
			results = appendResult(results, seen, row, StrategyFulltext)
		}
	}

	if chunkErr != nil && fulltextErr != nil {
		rows, err := e.storage.SearchPattern(ctx, patternTerms(query), limit)
		if err != nil {
			trace.Pattern = StageFailed
			e.logger.Printf("pattern fallback failed, returning empty result: %v", err)
			return []Result{}, trace
		}
		trace.Pattern = StageSucceeded
		for _, row := range rows {
			results = appendResult(results, seen, row, StrategyFallback)
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, trace
}

func appendResult(results []Result, seen map[string]struct{}, row store.SearchRow, strategy string) []Result {
	if _, dup := seen[row.URL]; dup {
		return results
	}
	seen[row.URL] = struct{}{}
	return append(results, Result{
		URL:             row.URL,
		Title:           row.Title,
		MetaDescription: row.MetaDescription,
		Snippet:         row.Snippet,
		Score:           row.Score,
		Strategy:        strategy,
	})
}

// patternTerms splits the query into words long enough for substring
// matching.
func patternTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(query) {
		if len(w) >= minPatternTerm {
			terms = append(terms, w)
		}
	}
	return terms
}
