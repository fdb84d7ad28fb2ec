package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

type fakeStorage struct {
	chunkRows    []store.SearchRow
	chunkErr     error
	fulltextRows []store.SearchRow
	fulltextErr  error
	patternRows  []store.SearchRow
	patternErr   error

	fulltextCalls   int
	fulltextExclude []string
	patternCalls    int
	patternTerms    []string
}

func (f *fakeStorage) SearchChunks(_ context.Context, _ string, _ int) ([]store.SearchRow, error) {
	return f.chunkRows, f.chunkErr
}

func (f *fakeStorage) SearchFulltext(_ context.Context, _ string, exclude []string, _ int) ([]store.SearchRow, error) {
	f.fulltextCalls++
	f.fulltextExclude = exclude
	return f.fulltextRows, f.fulltextErr
}

func (f *fakeStorage) SearchPattern(_ context.Context, terms []string, _ int) ([]store.SearchRow, error) {
	f.patternCalls++
	f.patternTerms = terms
	return f.patternRows, f.patternErr
}

func newTestEngine(f *fakeStorage) *Engine {
	return New(f, log.New(io.Discard, "", 0), 10)
}

func row(url string, score float64) store.SearchRow {
	return store.SearchRow{URL: url, Title: "t", Snippet: "s", Score: score}
}

func TestSearchEmptyQuery(t *testing.T) {
	f := &fakeStorage{}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "   ", 5)
	if results == nil || len(results) != 0 {
		t.Fatalf("results = %#v, want empty non-nil list", results)
	}
}

func TestSearchChunkResultsFirst(t *testing.T) {
	f := &fakeStorage{
		chunkRows: []store.SearchRow{row("https://a", 330), row("https://b", 50)},
	}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme", 2)
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	for _, r := range results {
		if r.Strategy != StrategyChunk {
			t.Errorf("strategy = %q, want chunk", r.Strategy)
		}
	}
	if results[0].URL != "https://a" {
		t.Errorf("not score-descending: %+v", results)
	}
	if f.fulltextCalls != 0 {
		t.Errorf("fulltext ran despite full chunk results")
	}
}

func TestSearchFulltextTopsUp(t *testing.T) {
	f := &fakeStorage{
		chunkRows:    []store.SearchRow{row("https://a", 330)},
		fulltextRows: []store.SearchRow{row("https://b", 12)},
	}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme", 5)
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[1].URL != "https://b" || results[1].Strategy != StrategyFulltext {
		t.Errorf("second result = %+v", results[1])
	}
	if len(f.fulltextExclude) != 1 || f.fulltextExclude[0] != "https://a" {
		t.Errorf("fulltext exclusions = %v", f.fulltextExclude)
	}
}

func TestSearchDeduplicatesURLs(t *testing.T) {
	f := &fakeStorage{
		chunkRows:    []store.SearchRow{row("https://a", 100)},
		fulltextRows: []store.SearchRow{row("https://a", 90), row("https://b", 8)},
	}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme", 5)
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].URL != "https://a" || results[0].Strategy != StrategyChunk {
		t.Errorf("chunk result should win the duplicate URL: %+v", results[0])
	}
}

func TestSearchChunkFailureFallsThrough(t *testing.T) {
	f := &fakeStorage{
		chunkErr:     errors.New("chunk query broke"),
		fulltextRows: []store.SearchRow{row("https://b", 16)},
	}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme", 5)
	if len(results) != 1 || results[0].Strategy != StrategyFulltext {
		t.Fatalf("results = %+v", results)
	}
	if f.patternCalls != 0 {
		t.Errorf("pattern fallback ran after a single failure")
	}
}

func TestSearchDualFailureActivatesFallback(t *testing.T) {
	f := &fakeStorage{
		chunkErr:    errors.New("chunk query broke"),
		fulltextErr: errors.New("fulltext broke too"),
		patternRows: []store.SearchRow{row("https://c", 1)},
	}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme corp", 5)
	if len(results) != 1 || results[0].Strategy != StrategyFallback {
		t.Fatalf("results = %+v", results)
	}
	if f.patternCalls != 1 {
		t.Fatalf("pattern calls = %d", f.patternCalls)
	}
}

func TestSearchEmptyResultsDoNotActivateFallback(t *testing.T) {
	f := &fakeStorage{}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "nothing matches this", 5)
	if len(results) != 0 {
		t.Fatalf("results = %+v", results)
	}
	if f.patternCalls != 0 {
		t.Errorf("pattern fallback ran on empty results instead of errors")
	}
}

func TestSearchAllStrategiesFailing(t *testing.T) {
	f := &fakeStorage{
		chunkErr:    errors.New("down"),
		fulltextErr: errors.New("down"),
		patternErr:  errors.New("down"),
	}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme", 5)
	if results == nil || len(results) != 0 {
		t.Fatalf("results = %#v, want empty non-nil list", results)
	}
}

func TestSearchPatternTermFiltering(t *testing.T) {
	f := &fakeStorage{
		chunkErr:    errors.New("down"),
		fulltextErr: errors.New("down"),
	}
	e := newTestEngine(f)

	e.Search(context.Background(), "an IT acme hub co", 5)
	if len(f.patternTerms) != 2 || f.patternTerms[0] != "acme" || f.patternTerms[1] != "hub" {
		t.Errorf("pattern terms = %v, want [acme hub]", f.patternTerms)
	}
}

func TestSearchTraceStageStatuses(t *testing.T) {
	cases := []struct {
		name    string
		storage *fakeStorage
		query   string
		want    Trace
	}{
		{
			name:    "chunk fills the limit, later stages never run",
			storage: &fakeStorage{chunkRows: []store.SearchRow{row("https://a", 100), row("https://b", 50)}},
			query:   "acme",
			want:    Trace{Chunk: StageSucceeded, Fulltext: StagePending, Pattern: StagePending},
		},
		{
			name:    "fulltext tops up, pattern stays pending",
			storage: &fakeStorage{chunkRows: []store.SearchRow{row("https://a", 100)}},
			query:   "acme",
			want:    Trace{Chunk: StageSucceeded, Fulltext: StageSucceeded, Pattern: StagePending},
		},
		{
			name: "dual failure activates pattern",
			storage: &fakeStorage{
				chunkErr:    errors.New("down"),
				fulltextErr: errors.New("down"),
				patternRows: []store.SearchRow{row("https://c", 1)},
			},
			query: "acme",
			want:  Trace{Chunk: StageFailed, Fulltext: StageFailed, Pattern: StageSucceeded},
		},
		{
			name: "every stage fails",
			storage: &fakeStorage{
				chunkErr:    errors.New("down"),
				fulltextErr: errors.New("down"),
				patternErr:  errors.New("down"),
			},
			query: "acme",
			want:  Trace{Chunk: StageFailed, Fulltext: StageFailed, Pattern: StageFailed},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(tc.storage, log.New(io.Discard, "", 0), 2)
			_, trace := e.SearchTrace(context.Background(), tc.query, 2)
			if trace != tc.want {
				t.Errorf("trace = %+v, want %+v", trace, tc.want)
			}
		})
	}
}

func TestStageStatusString(t *testing.T) {
	if StagePending.String() != "pending" || StageSucceeded.String() != "succeeded" || StageFailed.String() != "failed" {
		t.Error("stage status strings wrong")
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	rows := make([]store.SearchRow, 12)
	for i := range rows {
		rows[i] = row(string(rune('a'+i))+".example.com", float64(100-i))
	}
	f := &fakeStorage{chunkRows: rows}
	e := newTestEngine(f)

	results := e.Search(context.Background(), "acme", 0)
	if len(results) != 10 {
		t.Fatalf("results = %d, want default limit 10", len(results))
	}
}
