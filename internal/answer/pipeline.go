package answer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/moin143264/UrlChatbotBackend/internal/extractor"
	"github.com/moin143264/UrlChatbotBackend/internal/search"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
	"github.com/moin143264/UrlChatbotBackend/provider"
)

const quotaReply = "I'm currently experiencing high usage and my daily quota is over. " +
	"I'll be back up and running soon. Please try again later!"

// defaultSearchLimit is how many ranked hits the pipeline asks for;
// contextPages is how many of them actually get loaded into the model context.
const (
	defaultSearchLimit = 8
	contextPages       = 5
)

// Searcher is the retrieval slice the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []search.Result
}

// Pages loads full page records for the top search hits.
type Pages interface {
	GetPageByURL(ctx context.Context, url string) (store.Page, error)
}

// Provider generates a completion for an assembled prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reply is the pipeline's answer envelope.
type Reply struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	ContextFound   bool     `json:"context_found"`
	ResponseTimeMs int64    `json:"response_time_ms"`
}

// Pipeline turns a question into a grounded answer: search, page analysis,
// prompt assembly, generation, and response formatting.
type Pipeline struct {
	searcher    Searcher
	pages       Pages
	provider    Provider
	analyzer    *extractor.Analyzer
	logger      *log.Logger
	searchLimit int
}

func NewPipeline(searcher Searcher, pages Pages, provider Provider, analyzer *extractor.Analyzer, logger *log.Logger, searchLimit int) *Pipeline {
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	return &Pipeline{
		searcher:    searcher,
		pages:       pages,
		provider:    provider,
		analyzer:    analyzer,
		logger:      logger,
		searchLimit: searchLimit,
	}
}

// Answer runs the full pipeline. Greetings and restricted topics short-circuit
// before any retrieval happens. Only the provider call can fail; every other
// stage degrades to a helpful canned reply.
func (p *Pipeline) Answer(ctx context.Context, question string) (Reply, error) {
	started := time.Now()
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, fmt.Errorf("answer: empty question")
	}

	if reply, ok := Greeting(question); ok {
		return p.finish(reply, nil, false, started), nil
	}
	if reply, ok := Restricted(question); ok {
		return p.finish(reply, nil, false, started), nil
	}

	results := p.searcher.Search(ctx, question, p.searchLimit)
	if len(results) == 0 {
		return p.finish(NoContextReply(question), nil, false, started), nil
	}

	pages, sources := p.loadPages(ctx, results, question)
	if len(pages) == 0 {
		return p.finish(NoContextReply(question), nil, false, started), nil
	}

	companiesDetected := false
	for _, pc := range pages {
		if len(pc.Bundle.Companies) > 0 {
			companiesDetected = true
			break
		}
	}
	flags := ClassifyQuestion(question, companiesDetected)

	prompt := BuildPrompt(BuildContext(pages, question, flags), question, flags)
	raw, err := p.provider.Generate(ctx, prompt)
	if errors.Is(err, provider.ErrQuotaExceeded) {
		p.logger.Printf("[ANSWER] quota exceeded: %v", err)
		return p.finish(quotaReply, nil, false, started), nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("answer: generate: %w", err)
	}

	return p.finish(FormatResponse(raw, question, flags), sources, true, started), nil
}

// loadPages fetches and analyzes the top hits. A page that fails to load or
// analyze is logged and skipped rather than failing the question.
func (p *Pipeline) loadPages(ctx context.Context, results []search.Result, question string) ([]PageContext, []string) {
	if len(results) > contextPages {
		results = results[:contextPages]
	}
	var pages []PageContext
	var sources []string
	for _, r := range results {
		page, err := p.pages.GetPageByURL(ctx, r.URL)
		if err != nil {
			p.logger.Printf("[ANSWER] skipping %s: %v", r.URL, err)
			continue
		}
		bundle, err := p.analyzer.Analyze(page.Title+"\n"+page.Content, question)
		if err != nil {
			p.logger.Printf("[ANSWER] analysis failed for %s: %v", r.URL, err)
			bundle = extractor.Bundle{}
		}
		pages = append(pages, PageContext{
			URL:             page.URL,
			Title:           page.Title,
			MetaDescription: page.MetaDescription,
			Keywords:        page.Keywords,
			Content:         page.Content,
			Bundle:          bundle,
		})
		sources = append(sources, page.URL)
	}
	return pages, sources
}

func (p *Pipeline) finish(text string, sources []string, contextFound bool, started time.Time) Reply {
	if sources == nil {
		sources = []string{}
	}
	return Reply{
		Answer:         text,
		Sources:        sources,
		ContextFound:   contextFound,
		ResponseTimeMs: time.Since(started).Milliseconds(),
	}
}
