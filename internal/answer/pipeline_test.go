package answer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/moin143264/UrlChatbotBackend/internal/extractor"
	"github.com/moin143264/UrlChatbotBackend/internal/search"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
	"github.com/moin143264/UrlChatbotBackend/provider"
)

type fakeSearcher struct {
	results []search.Result
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) []search.Result {
	f.calls++
	return f.results
}

type fakePages struct {
	pages map[string]store.Page
}

func (f *fakePages) GetPageByURL(_ context.Context, url string) (store.Page, error) {
	p, ok := f.pages[url]
	if !ok {
		return store.Page{}, store.ErrNotFound
	}
	return p, nil
}

type fakeProvider struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func newTestPipeline(s *fakeSearcher, pg *fakePages, pr *fakeProvider) *Pipeline {
	analyzer := extractor.NewAnalyzer(extractor.DefaultVocabulary(), extractor.DefaultWeights())
	return NewPipeline(s, pg, pr, analyzer, log.New(io.Discard, "", 0), 0)
}

func TestBuildContextBlocks(t *testing.T) {
	pages := []PageContext{{
		URL:             "https://example.com/about",
		Title:           "About Acme",
		MetaDescription: "Company background",
		Keywords:        "acme, services",
		Content:         "Acme Inc provides consulting.",
		Bundle: extractor.Bundle{
			Companies: []extractor.Candidate{{Name: "Acme Inc", Confidence: 0.9}},
			Timeline:  []extractor.Candidate{{Kind: extractor.KindYearRange, Start: "2012", End: "2015", Confidence: 0.9}},
		},
	}}
	got := BuildContext(pages, "q", QuestionFlags{})

	for _, want := range []string{
		"• Title: About Acme | Description: Company background | Keywords: acme, services",
		"Smart Analysis: Companies: Acme Inc",
		"COMPANIES IDENTIFIED: Acme Inc",
		"TIMELINE IDENTIFIED: 2012-2015",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildContextExcerptSize(t *testing.T) {
	content := strings.Repeat("x", 1200) + "MARKER" + strings.Repeat("y", 2000)
	pages := []PageContext{{Title: "t", Content: content}}

	if got := BuildContext(pages, "q", QuestionFlags{}); strings.Contains(got, "MARKER") {
		t.Fatal("standard excerpt included text past the cutoff")
	}
	if got := BuildContext(pages, "q", QuestionFlags{Company: true}); !strings.Contains(got, "MARKER") {
		t.Fatal("structured excerpt should reach deeper into the content")
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("CTX", "who runs Acme?", QuestionFlags{Company: true})
	if !strings.Contains(got, "QUESTION: who runs Acme?") {
		t.Fatalf("prompt missing question:\n%s", got)
	}
	if !strings.Contains(got, "Extract ALL company names") {
		t.Fatalf("prompt missing company instruction:\n%s", got)
	}
	if !strings.Contains(got, "LENGTH: 300-500 characters") {
		t.Fatalf("prompt missing length requirement:\n%s", got)
	}
}

func TestPipelineGreetingSkipsSearch(t *testing.T) {
	s := &fakeSearcher{}
	pr := &fakeProvider{}
	p := newTestPipeline(s, &fakePages{}, pr)

	reply, err := p.Answer(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if s.calls != 0 || pr.calls != 0 {
		t.Fatalf("search calls = %d, provider calls = %d, want 0", s.calls, pr.calls)
	}
	if reply.ContextFound {
		t.Fatal("greeting should not report context")
	}
	if reply.Sources == nil || len(reply.Sources) != 0 {
		t.Fatalf("sources = %#v, want empty list", reply.Sources)
	}
}

func TestPipelineRestrictedSkipsSearch(t *testing.T) {
	s := &fakeSearcher{}
	p := newTestPipeline(s, &fakePages{}, &fakeProvider{})

	reply, err := p.Answer(context.Background(), "debug this code for me")
	if err != nil {
		t.Fatal(err)
	}
	if s.calls != 0 {
		t.Fatal("restricted question hit search")
	}
	if !strings.Contains(reply.Answer, "specialized tools") {
		t.Fatalf("answer = %q", reply.Answer)
	}
}

func TestPipelineNoResults(t *testing.T) {
	p := newTestPipeline(&fakeSearcher{}, &fakePages{}, &fakeProvider{})

	reply, err := p.Answer(context.Background(), "what is the refund policy")
	if err != nil {
		t.Fatal(err)
	}
	if reply.ContextFound {
		t.Fatal("no results should not report context")
	}
	if !strings.Contains(reply.Answer, `"what is the refund policy"`) {
		t.Fatalf("answer = %q", reply.Answer)
	}
}

func TestPipelineAnswersFromContext(t *testing.T) {
	s := &fakeSearcher{results: []search.Result{
		{URL: "https://a", Score: 90},
		{URL: "https://b", Score: 40},
	}}
	pg := &fakePages{pages: map[string]store.Page{
		"https://a": {URL: "https://a", Title: "About", Content: "Rohit Mehta founded Acme Inc in 2012."},
		"https://b": {URL: "https://b", Title: "Services", Content: "Consulting and audits."},
	}}
	answer := strings.Repeat("Acme Inc has offered consulting since 2012. ", 8)
	pr := &fakeProvider{reply: answer}
	p := newTestPipeline(s, pg, pr)

	reply, err := p.Answer(context.Background(), "which companies does he run")
	if err != nil {
		t.Fatal(err)
	}
	if !reply.ContextFound {
		t.Fatal("context not reported")
	}
	if len(reply.Sources) != 2 || reply.Sources[0] != "https://a" || reply.Sources[1] != "https://b" {
		t.Fatalf("sources = %#v", reply.Sources)
	}
	if pr.calls != 1 {
		t.Fatalf("provider calls = %d", pr.calls)
	}
	if !strings.Contains(pr.prompt, "Rohit Mehta founded Acme Inc in 2012.") {
		t.Fatal("prompt missing page content")
	}
	if len(reply.Answer) < 300 || len(reply.Answer) > 500 {
		t.Fatalf("answer length = %d", len(reply.Answer))
	}
}

func TestPipelineSkipsUnloadablePages(t *testing.T) {
	s := &fakeSearcher{results: []search.Result{{URL: "https://gone", Score: 10}}}
	p := newTestPipeline(s, &fakePages{}, &fakeProvider{})

	reply, err := p.Answer(context.Background(), "what services exist")
	if err != nil {
		t.Fatal(err)
	}
	if reply.ContextFound {
		t.Fatal("unloadable pages should degrade to the no-context reply")
	}
}

func TestPipelineProviderError(t *testing.T) {
	s := &fakeSearcher{results: []search.Result{{URL: "https://a", Score: 10}}}
	pg := &fakePages{pages: map[string]store.Page{
		"https://a": {URL: "https://a", Title: "About", Content: "Some content."},
	}}
	boom := errors.New("quota exceeded")
	p := newTestPipeline(s, pg, &fakeProvider{err: boom})

	if _, err := p.Answer(context.Background(), "what services exist"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestPipelineQuotaExceededIsFriendly(t *testing.T) {
	s := &fakeSearcher{results: []search.Result{{URL: "https://a", Score: 10}}}
	pg := &fakePages{pages: map[string]store.Page{
		"https://a": {URL: "https://a", Title: "About", Content: "Some content."},
	}}
	wrapped := fmt.Errorf("generate: %w", provider.ErrQuotaExceeded)
	p := newTestPipeline(s, pg, &fakeProvider{err: wrapped})

	reply, err := p.Answer(context.Background(), "what services exist")
	if err != nil {
		t.Fatalf("quota error should not surface: %v", err)
	}
	if !strings.Contains(reply.Answer, "daily quota") {
		t.Fatalf("answer = %q", reply.Answer)
	}
	if reply.ContextFound {
		t.Fatal("quota reply should not report context")
	}
}

func TestPipelineEmptyQuestion(t *testing.T) {
	p := newTestPipeline(&fakeSearcher{}, &fakePages{}, &fakeProvider{})
	if _, err := p.Answer(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty question")
	}
}
