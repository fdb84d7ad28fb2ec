// Package chunker decomposes a scraped page into small, typed, priority-ranked
// text units. The search layer matches and scores these chunks instead of the
// raw page body, so "the query hit the title" can outrank "the query appears
// somewhere in a 5000-word blob" without an inverted index.
package chunker

import (
	"regexp"
	"strings"
)

// Chunk types. Entity chunks are synthesized from detected entities rather
// than taken verbatim from the page text.
const (
	TypeTitle   = "title"
	TypeHeading = "heading"
	TypeContent = "content"
	TypeEntity  = "entity"
)

// Chunk priorities, higher is more important. Entity summaries rank above
// everything: they are the densest signal a page carries.
const (
	PriorityEntity  = 12
	PriorityTitle   = 10
	PriorityHeading = 8
	PriorityContent = 5
)

const (
	maxContentChunk = 300 // body chunks never exceed this
	minSection      = 10  // structural sections shorter than this are noise
	minChunk        = 15  // final floor for any stored chunk

	maxAggregateCompanies  = 10
	maxIndividualCompanies = 5
)

// Chunk is one searchable unit of a page. Order is meaningful only among the
// content-type chunks of a single page.
type Chunk struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Order    int    `json:"order"`
}

// CompanyFinder yields detected company names for synthetic chunk assembly.
// *extractor.Analyzer satisfies this.
type CompanyFinder interface {
	Companies(text string) []string
}

// Chunker splits page text into chunks. Safe for concurrent use.
type Chunker struct {
	companies CompanyFinder

	structural *regexp.Regexp
	yearRange  *regexp.Regexp
	hyphenYear *regexp.Regexp
	sentence   *regexp.Regexp
	personName *regexp.Regexp
	timeline   *regexp.Regexp
}

// companyStopwords rejects detected names that are nothing but filler words.
var companyStopwords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "from": {}, "this": {}, "that": {},
	"have": {}, "been": {}, "will": {}, "would": {}, "could": {}, "should": {},
}

// bareCategoryWords are industry nouns that suffix detection mistakes for
// whole company names.
var bareCategoryWords = map[string]struct{}{
	"services": {}, "management": {}, "technology": {}, "digital": {}, "solutions": {},
}

// personDenylist drops capitalized-pair matches that are not names.
var personDenylist = []string{"april", "standard", "financial", "chartered"}

// New builds a Chunker. companies may be nil, in which case no company
// summary chunks are synthesized.
func New(companies CompanyFinder) *Chunker {
	return &Chunker{
		companies:  companies,
		structural: regexp.MustCompile(`\n\n+|\|\s*|\s*•\s*`),
		yearRange:  regexp.MustCompile(`\s*\d{4}\s*-\s*(?:Present|\d{4})`),
		hyphenYear: regexp.MustCompile(`(\s*-\s*)\d{4}`),
		sentence:   regexp.MustCompile(`[.!?]+\s+`),
		personName: regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
		timeline:   regexp.MustCompile(`\b(\d{4})\s*-\s*(Present|\d{4})\b`),
	}
}

// Chunk splits a page's title, heading block (newline-separated lines, the
// shape the scraper stores) and body content into chunks:
//
//  1. the title, if present, becomes one title chunk;
//  2. each heading line becomes a heading chunk in original order;
//  3. the body is split on structural separators, oversized sections are
//     re-split on sentence boundaries under the size cap, and each piece
//     becomes a content chunk with an increasing order index;
//  4. detected companies, person names and year ranges become synthetic
//     entity chunks ("Companies: …", "Company: …", "People: …",
//     "Timeline: …");
//  5. a final pass drops chunks under the minimum length and case-insensitive
//     duplicates, keeping first occurrences.
func (c *Chunker) Chunk(title, headings, content string) []Chunk {
	var raw []Chunk

	if t := strings.TrimSpace(title); t != "" {
		raw = append(raw, Chunk{Text: t, Type: TypeTitle, Priority: PriorityTitle})
	}
	for _, line := range strings.Split(headings, "\n") {
		if h := strings.TrimSpace(line); h != "" {
			raw = append(raw, Chunk{Text: h, Type: TypeHeading, Priority: PriorityHeading})
		}
	}

	order := 0
	for _, section := range c.sections(content) {
		raw = append(raw, Chunk{Text: section, Type: TypeContent, Priority: PriorityContent, Order: order})
		order++
	}
	for _, text := range c.entityChunks(content) {
		raw = append(raw, Chunk{Text: text, Type: TypeEntity, Priority: PriorityEntity, Order: order})
		order++
	}

	return filterChunks(raw)
}

// sections splits content on structural separators (blank-line runs, pipes,
// bullets, and timeline-style year markers), then re-splits anything over the
// size cap on sentence boundaries.
func (c *Chunker) sections(content string) []string {
	var out []string
	for _, section := range c.splitStructural(content) {
		section = strings.TrimSpace(section)
		if len(section) < minSection {
			continue
		}
		if len(section) <= maxContentChunk {
			out = append(out, section)
			continue
		}
		out = append(out, c.splitSentences(section)...)
	}
	return out
}

func (c *Chunker) splitStructural(content string) []string {
	var parts []string
	rest := content
	for rest != "" {
		start, end := c.nextSeparator(rest)
		if start < 0 {
			parts = append(parts, rest)
			break
		}
		parts = append(parts, rest[:start])
		rest = rest[end:]
	}
	return parts
}

// nextSeparator returns the span of the leftmost structural separator in s,
// or (-1, -1). A lone hyphen counts only when a year follows it; the year
// itself stays with the next section, so only the hyphen's capture span is
// treated as the separator.
func (c *Chunker) nextSeparator(s string) (int, int) {
	start, end := -1, -1
	if loc := c.structural.FindStringIndex(s); loc != nil {
		start, end = loc[0], loc[1]
	}
	if loc := c.yearRange.FindStringIndex(s); loc != nil && (start < 0 || loc[0] < start) {
		start, end = loc[0], loc[1]
	}
	if m := c.hyphenYear.FindStringSubmatchIndex(s); m != nil && (start < 0 || m[2] < start) {
		start, end = m[2], m[3]
	}
	return start, end
}

// splitSentences accumulates sentences into chunks at most maxContentChunk
// long. A single run-on sentence over the cap is hard-wrapped on spaces.
func (c *Chunker) splitSentences(section string) []string {
	var out []string
	current := ""
	for _, sentence := range c.sentence.Split(section, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if len(sentence) > maxContentChunk {
			if current != "" {
				out = append(out, current)
				current = ""
			}
			out = append(out, hardWrap(sentence, maxContentChunk)...)
			continue
		}
		switch {
		case current == "":
			current = sentence
		case len(current)+1+len(sentence) > maxContentChunk:
			out = append(out, current)
			current = sentence
		default:
			current += " " + sentence
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func hardWrap(s string, max int) []string {
	var out []string
	current := ""
	for _, word := range strings.Fields(s) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) > max:
			out = append(out, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// entityChunks synthesizes the company, people and timeline summary chunks.
func (c *Chunker) entityChunks(content string) []string {
	var out []string
	out = append(out, c.companyChunks(content)...)
	if people := c.peopleChunk(content); people != "" {
		out = append(out, people)
	}
	if timeline := c.timelineChunk(content); timeline != "" {
		out = append(out, timeline)
	}
	return out
}

func (c *Chunker) companyChunks(content string) []string {
	if c.companies == nil {
		return nil
	}
	var kept []string
	seen := map[string]struct{}{}
	for _, name := range c.companies.Companies(content) {
		name = strings.TrimSpace(name)
		if len(name) < 5 || len(name) > 50 {
			continue
		}
		lower := strings.ToLower(name)
		if _, bare := bareCategoryWords[lower]; bare {
			continue
		}
		if stopwordsOnly(lower) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		kept = append(kept, name)
	}
	if len(kept) == 0 {
		return nil
	}
	top := kept
	if len(top) > maxAggregateCompanies {
		top = top[:maxAggregateCompanies]
	}
	out := []string{"Companies: " + strings.Join(top, ", ")}
	individual := kept
	if len(individual) > maxIndividualCompanies {
		individual = individual[:maxIndividualCompanies]
	}
	for _, name := range individual {
		out = append(out, "Company: "+name)
	}
	return out
}

func stopwordsOnly(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if _, ok := companyStopwords[w]; !ok {
			return false
		}
	}
	return true
}

func (c *Chunker) peopleChunk(content string) string {
	var names []string
	seen := map[string]struct{}{}
next:
	for _, name := range c.personName.FindAllString(content, -1) {
		lower := strings.ToLower(name)
		for _, bad := range personDenylist {
			if strings.Contains(lower, bad) {
				continue next
			}
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	return "People: " + strings.Join(names, ", ")
}

func (c *Chunker) timelineChunk(content string) string {
	var spans []string
	for _, m := range c.timeline.FindAllStringSubmatch(content, -1) {
		spans = append(spans, m[1]+"-"+m[2])
	}
	if len(spans) == 0 {
		return ""
	}
	return "Timeline: " + strings.Join(spans, ", ")
}

// filterChunks drops chunks under the minimum length and case-insensitive
// exact duplicates, preserving first-occurrence order.
func filterChunks(in []Chunk) []Chunk {
	var out []Chunk
	seen := map[string]struct{}{}
	for _, ch := range in {
		text := strings.TrimSpace(ch.Text)
		if len(text) < minChunk {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ch.Text = text
		out = append(out, ch)
	}
	return out
}
