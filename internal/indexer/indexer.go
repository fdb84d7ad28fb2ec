// Package indexer turns scraped pages into stored search chunks. One call
// indexes one page: chunk the text, then atomically upsert the page row and
// replace its chunk set.
package indexer

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/moin143264/UrlChatbotBackend/internal/chunker"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

// ErrInvalidPage rejects page records with no URL before any storage call.
var ErrInvalidPage = errors.New("indexer: page url required")

// Storage is the slice of the store the indexer needs.
type Storage interface {
	UpsertPageWithChunks(ctx context.Context, page store.Page, chunks []store.Chunk) (int64, error)
}

// Indexer chunks pages and persists the result.
type Indexer struct {
	chunker *chunker.Chunker
	storage Storage
	logger  *log.Logger
}

// New builds an Indexer.
func New(ch *chunker.Chunker, st Storage, logger *log.Logger) *Indexer {
	return &Indexer{chunker: ch, storage: st, logger: logger}
}

// Index chunks the page and writes page plus chunks in one transaction,
// returning the page id. Storage errors propagate unchanged so the caller can
// mark the source page failed; nothing is partially committed.
func (ix *Indexer) Index(ctx context.Context, page store.Page) (int64, error) {
	if strings.TrimSpace(page.URL) == "" {
		return 0, ErrInvalidPage
	}

	chunks := ix.chunker.Chunk(page.Title, page.Headings, page.Content)
	rows := make([]store.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		rows = append(rows, store.Chunk{
			Text:     ch.Text,
			Type:     ch.Type,
			Priority: ch.Priority,
			Order:    ch.Order,
		})
	}

	pageID, err := ix.storage.UpsertPageWithChunks(ctx, page, rows)
	if err != nil {
		return 0, err
	}
	ix.logger.Printf("indexed %s: %d chunks", page.URL, len(rows))
	return pageID, nil
}
