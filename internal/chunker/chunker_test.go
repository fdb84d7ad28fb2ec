package chunker

import (
	"strings"
	"testing"

	"github.com/moin143264/UrlChatbotBackend/internal/extractor"
)

// fixedFinder stubs company detection with a canned name list.
type fixedFinder struct {
	names []string
}

func (f fixedFinder) Companies(string) []string { return f.names }

func newTestChunker(names ...string) *Chunker {
	return New(fixedFinder{names: names})
}

func chunksOfType(chunks []Chunk, typ string) []Chunk {
	var out []Chunk
	for _, ch := range chunks {
		if ch.Type == typ {
			out = append(out, ch)
		}
	}
	return out
}

func findChunkPrefix(chunks []Chunk, prefix string) (Chunk, bool) {
	for _, ch := range chunks {
		if strings.HasPrefix(ch.Text, prefix) {
			return ch, true
		}
	}
	return Chunk{}, false
}

func TestChunkTitleAndHeadings(t *testing.T) {
	c := newTestChunker()
	chunks := c.Chunk(
		"Troika Tech Services - Digital Marketing",
		"H1: About the founders\nH2: Services we provide\n",
		"",
	)
	titles := chunksOfType(chunks, TypeTitle)
	if len(titles) != 1 {
		t.Fatalf("title chunks = %d, want 1", len(titles))
	}
	if titles[0].Priority != PriorityTitle {
		t.Errorf("title priority = %d, want %d", titles[0].Priority, PriorityTitle)
	}
	headings := chunksOfType(chunks, TypeHeading)
	if len(headings) != 2 {
		t.Fatalf("heading chunks = %d, want 2: %+v", len(headings), chunks)
	}
	if headings[0].Text != "H1: About the founders" || headings[1].Text != "H2: Services we provide" {
		t.Errorf("heading order not preserved: %+v", headings)
	}
	for _, h := range headings {
		if h.Priority != PriorityHeading {
			t.Errorf("heading priority = %d, want %d", h.Priority, PriorityHeading)
		}
	}
}

func TestChunkStructuralSeparators(t *testing.T) {
	c := newTestChunker()
	content := "First paragraph about the agency.\n\nSecond paragraph here. | Third piece of text here. • Fourth bullet item text."
	chunks := chunksOfType(c.Chunk("", "", content), TypeContent)
	if len(chunks) != 4 {
		t.Fatalf("content chunks = %d, want 4: %+v", len(chunks), chunks)
	}
	for i, ch := range chunks {
		if ch.Order != i {
			t.Errorf("chunk %d order = %d", i, ch.Order)
		}
		if ch.Priority != PriorityContent {
			t.Errorf("chunk %d priority = %d, want %d", i, ch.Priority, PriorityContent)
		}
	}
}

func TestChunkYearRangeSeparator(t *testing.T) {
	c := newTestChunker()
	content := "Director of operations 2015 - 2019 leading the digital division."
	chunks := chunksOfType(c.Chunk("", "", content), TypeContent)
	for _, ch := range chunks {
		if strings.Contains(ch.Text, "2015 - 2019") {
			t.Errorf("year-range marker survived splitting: %q", ch.Text)
		}
	}
}

func TestChunkHyphenYearKeepsYear(t *testing.T) {
	c := newTestChunker()
	content := "Working history - 2015 joined the firm as lead"
	chunks := chunksOfType(c.Chunk("", "", content), TypeContent)
	if len(chunks) != 2 {
		t.Fatalf("content chunks = %d, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].Text != "Working history" {
		t.Errorf("first section = %q", chunks[0].Text)
	}
	if !strings.HasPrefix(chunks[1].Text, "2015 ") {
		t.Errorf("year not kept with next section: %q", chunks[1].Text)
	}
}

func TestChunkSizeCap(t *testing.T) {
	c := newTestChunker()
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		sb.WriteString("Campaign number ")
		sb.WriteByte(byte('1' + i))
		sb.WriteString(" was delivered for a client in the retail segment with measurable gains across every channel. ")
	}
	content := sb.String()
	chunks := chunksOfType(c.Chunk("", "", content), TypeContent)
	if len(chunks) < 2 {
		t.Fatalf("expected oversized section to split, got %d chunks", len(chunks))
	}
	for _, ch := range chunks {
		if len(ch.Text) > maxContentChunk {
			t.Errorf("chunk exceeds %d chars: %d %q", maxContentChunk, len(ch.Text), ch.Text)
		}
		if len(ch.Text) < minChunk {
			t.Errorf("chunk under %d chars: %q", minChunk, ch.Text)
		}
	}
}

func TestChunkMinimumLength(t *testing.T) {
	c := newTestChunker()
	chunks := c.Chunk("Short name", "H1: Tiny", "Too short.\n\nThis sentence is long enough to keep around.")
	for _, ch := range chunks {
		if len(ch.Text) < minChunk {
			t.Errorf("short chunk survived filtering: %q", ch.Text)
		}
	}
}

func TestChunkDeduplication(t *testing.T) {
	c := newTestChunker()
	chunks := c.Chunk(
		"About Troika Tech Services",
		"about troika tech services",
		"",
	)
	if len(chunks) != 1 {
		t.Fatalf("expected case-insensitive dedup to one chunk, got %+v", chunks)
	}
	if chunks[0].Type != TypeTitle {
		t.Errorf("first occurrence (title) should win, got %q", chunks[0].Type)
	}
}

func TestChunkCompanySummaries(t *testing.T) {
	c := New(extractor.NewAnalyzer(extractor.DefaultVocabulary(), extractor.DefaultWeights()))
	chunks := c.Chunk("", "", "Godwin is Co-Founder of Troika Tech Services. He also founded Troika Management.")
	agg, ok := findChunkPrefix(chunks, "Companies: ")
	if !ok {
		t.Fatalf("no aggregate company chunk: %+v", chunks)
	}
	if !strings.Contains(agg.Text, "Troika Tech Services") || !strings.Contains(agg.Text, "Troika Management") {
		t.Errorf("aggregate chunk missing names: %q", agg.Text)
	}
	if agg.Type != TypeEntity || agg.Priority != PriorityEntity {
		t.Errorf("aggregate chunk type/priority = %q/%d", agg.Type, agg.Priority)
	}
	if _, ok := findChunkPrefix(chunks, "Company: Troika Tech Services"); !ok {
		t.Errorf("missing individual company chunk: %+v", chunks)
	}
}

func TestChunkCompanyFiltering(t *testing.T) {
	// too short, too long, bare category word, stopwords only, and a
	// case-insensitive duplicate must all be rejected
	c := newTestChunker(
		"Acme Digital Group",
		"Ltd",
		strings.Repeat("A", 51),
		"Digital",
		"The And With",
		"ACME DIGITAL GROUP",
	)
	chunks := c.Chunk("", "", "enough content text here")
	agg, ok := findChunkPrefix(chunks, "Companies: ")
	if !ok {
		t.Fatalf("no aggregate company chunk: %+v", chunks)
	}
	if agg.Text != "Companies: Acme Digital Group" {
		t.Errorf("aggregate chunk = %q", agg.Text)
	}
	individuals := 0
	for _, ch := range chunks {
		if strings.HasPrefix(ch.Text, "Company: ") {
			individuals++
		}
	}
	if individuals != 1 {
		t.Errorf("individual company chunks = %d, want 1: %+v", individuals, chunks)
	}
}

func TestChunkCompanyLimits(t *testing.T) {
	names := []string{
		"Alpha Services Group", "Bravo Services Group", "Charlie Services Group",
		"Delta Services Group", "Echo Services Group", "Foxtrot Services Group",
		"Golf Services Group", "Hotel Services Group", "India Services Group",
		"Juliet Services Group", "Kilo Services Group", "Lima Services Group",
	}
	c := newTestChunker(names...)
	chunks := c.Chunk("", "", "enough content text here")
	agg, ok := findChunkPrefix(chunks, "Companies: ")
	if !ok {
		t.Fatal("no aggregate company chunk")
	}
	listed := strings.Split(strings.TrimPrefix(agg.Text, "Companies: "), ", ")
	if len(listed) != maxAggregateCompanies {
		t.Errorf("aggregate names = %d, want %d", len(listed), maxAggregateCompanies)
	}
	individuals := 0
	for _, ch := range chunks {
		if strings.HasPrefix(ch.Text, "Company: ") {
			individuals++
		}
	}
	if individuals != maxIndividualCompanies {
		t.Errorf("individual chunks = %d, want %d", individuals, maxIndividualCompanies)
	}
}

func TestChunkPeopleSummary(t *testing.T) {
	c := newTestChunker()
	chunks := c.Chunk("", "", "Godwin Pinto and Maria Fernandes run the studio. April Showers visited.")
	people, ok := findChunkPrefix(chunks, "People: ")
	if !ok {
		t.Fatalf("no people chunk: %+v", chunks)
	}
	if !strings.Contains(people.Text, "Godwin Pinto") || !strings.Contains(people.Text, "Maria Fernandes") {
		t.Errorf("people chunk missing names: %q", people.Text)
	}
	if strings.Contains(people.Text, "April") {
		t.Errorf("denylisted name survived: %q", people.Text)
	}
}

func TestChunkTimelineSummary(t *testing.T) {
	c := newTestChunker()
	chunks := c.Chunk("", "", "Career span 2012 - Present after an earlier stint 2008-2011 abroad.")
	timeline, ok := findChunkPrefix(chunks, "Timeline: ")
	if !ok {
		t.Fatalf("no timeline chunk: %+v", chunks)
	}
	if timeline.Text != "Timeline: 2012-Present, 2008-2011" {
		t.Errorf("timeline chunk = %q", timeline.Text)
	}
}

func TestChunkEmptyPage(t *testing.T) {
	c := newTestChunker()
	if chunks := c.Chunk("", "", ""); len(chunks) != 0 {
		t.Errorf("empty page produced chunks: %+v", chunks)
	}
}
