package indexer

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/moin143264/UrlChatbotBackend/internal/chunker"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

type fakeStorage struct {
	page   store.Page
	chunks []store.Chunk
	calls  int
	err    error
}

func (f *fakeStorage) UpsertPageWithChunks(_ context.Context, page store.Page, chunks []store.Chunk) (int64, error) {
	f.calls++
	f.page = page
	f.chunks = chunks
	if f.err != nil {
		return 0, f.err
	}
	return 42, nil
}

func newTestIndexer(st Storage) *Indexer {
	return New(chunker.New(nil), st, log.New(io.Discard, "", 0))
}

func TestIndexStoresChunks(t *testing.T) {
	fake := &fakeStorage{}
	ix := newTestIndexer(fake)

	page := store.Page{
		URL:      "https://example.com/about",
		Title:    "About Troika Tech Services",
		Headings: "H1: What the studio does",
		Content:  "The studio designs and ships marketing sites for clients. Second sentence with more detail about campaigns.",
	}
	id, err := ix.Index(context.Background(), page)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if id != 42 {
		t.Errorf("page id = %d, want 42", id)
	}
	if fake.calls != 1 {
		t.Fatalf("storage calls = %d, want 1", fake.calls)
	}
	if len(fake.chunks) == 0 {
		t.Fatal("no chunks persisted")
	}
	if fake.chunks[0].Type != chunker.TypeTitle || fake.chunks[0].Text != page.Title {
		t.Errorf("first chunk = %+v", fake.chunks[0])
	}
}

func TestIndexRequiresURL(t *testing.T) {
	fake := &fakeStorage{}
	ix := newTestIndexer(fake)

	if _, err := ix.Index(context.Background(), store.Page{Title: "orphan"}); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("err = %v, want ErrInvalidPage", err)
	}
	if fake.calls != 0 {
		t.Errorf("storage called %d times for invalid page", fake.calls)
	}
}

func TestIndexPropagatesStorageError(t *testing.T) {
	boom := errors.New("connection lost")
	fake := &fakeStorage{err: boom}
	ix := newTestIndexer(fake)

	_, err := ix.Index(context.Background(), store.Page{URL: "https://example.com"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want storage error unchanged", err)
	}
}

func TestIndexIsDeterministic(t *testing.T) {
	fake := &fakeStorage{}
	ix := newTestIndexer(fake)

	page := store.Page{
		URL:     "https://example.com/team",
		Title:   "Meet the team",
		Content: "Godwin Pinto leads delivery. Maria Fernandes runs client services for the studio.",
	}
	if _, err := ix.Index(context.Background(), page); err != nil {
		t.Fatalf("Index: %v", err)
	}
	first := fake.chunks
	if _, err := ix.Index(context.Background(), page); err != nil {
		t.Fatalf("re-index: %v", err)
	}
	if len(first) != len(fake.chunks) {
		t.Fatalf("chunk count drifted: %d vs %d", len(first), len(fake.chunks))
	}
	for i := range first {
		if first[i] != fake.chunks[i] {
			t.Errorf("chunk %d drifted: %+v vs %+v", i, first[i], fake.chunks[i])
		}
	}
}
