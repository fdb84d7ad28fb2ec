// Package extractor implements rule-based entity extraction over free text.
// A fixed pipeline of independent detectors scans for companies, people,
// roles, timeline events, skills and a handful of smaller categories, each
// candidate carrying a hand-tuned confidence. This is deliberately heuristic:
// there is no model, no training loop, just patterns that have proven useful
// against real scraped pages.
package extractor

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput is returned when the supplied text is not valid UTF-8.
var ErrInvalidInput = errors.New("extractor: invalid input text")

// Analyzer runs the detector pipelines and assembles a Bundle.
type Analyzer struct {
	vocab   Vocabulary
	weights Weights

	people       []Detector
	companies    []Detector
	roles        []Detector
	timeline     []Detector
	skills       []Detector
	locations    []Detector
	projects     []Detector
	achievements []Detector
	contacts     []Detector
	statistics   []Detector
}

// NewAnalyzer builds an Analyzer with the given pattern tables and
// confidence weights. Use DefaultVocabulary and DefaultWeights unless a
// deployment needs tuning.
func NewAnalyzer(vocab Vocabulary, weights Weights) *Analyzer {
	return &Analyzer{
		vocab:   vocab,
		weights: weights,
		people: []Detector{
			newPersonTitleDetector(vocab, weights),
			newPersonContextDetector(weights),
		},
		companies: []Detector{
			newCompanySuffixDetector(vocab, weights),
			newCompanyContextDetector(weights),
			newCompanyTimelineDetector(weights),
		},
		roles:        []Detector{newRoleDetector(vocab, weights)},
		timeline:     []Detector{newTimelineDetector(weights)},
		skills:       []Detector{newSkillVocabularyDetector(vocab, weights), newSkillPhraseDetector(weights)},
		locations:    []Detector{newLocationDetector(vocab, weights)},
		projects:     []Detector{newProjectDetector(vocab, weights)},
		achievements: []Detector{newAchievementDetector(vocab, weights)},
		contacts:     []Detector{newContactDetector(weights)},
		statistics:   []Detector{newStatisticDetector(weights)},
	}
}

// Analyze extracts all entity categories from text. The optional question
// biases one category (+QuestionBoost confidence, capped at 1.0) based on its
// keywords. Extraction itself never fails: categories with no matches come
// back empty. Only structurally invalid input is an error.
func (a *Analyzer) Analyze(text, question string) (Bundle, error) {
	if !utf8.ValidString(text) {
		return Bundle{}, ErrInvalidInput
	}
	var b Bundle
	b.People = dedupeCandidates(runDetectors(a.people, text))
	b.Companies = dedupeCandidates(runDetectors(a.companies, text))
	b.Roles = dedupeCandidates(runDetectors(a.roles, text))
	b.Timeline = runDetectors(a.timeline, text) // distinct events, no merging
	b.Skills = dedupeCandidates(runDetectors(a.skills, text))
	b.Locations = dedupeCandidates(runDetectors(a.locations, text))
	b.Projects = dedupeCandidates(runDetectors(a.projects, text))
	b.Achievements = runDetectors(a.achievements, text)
	b.Contacts = runDetectors(a.contacts, text)
	b.Statistics = runDetectors(a.statistics, text)

	if question != "" {
		a.biasForQuestion(&b, question)
	}
	b.Confidence = meanConfidence(&b)
	return b, nil
}

// Companies runs only the company pipeline and returns deduplicated names in
// text order. Chunk synthesis uses this; it has no need for a full analysis.
func (a *Analyzer) Companies(text string) []string {
	if !utf8.ValidString(text) {
		return nil
	}
	var names []string
	for _, c := range dedupeCandidates(runDetectors(a.companies, text)) {
		names = append(names, c.Name)
	}
	return names
}

func runDetectors(ds []Detector, text string) []Candidate {
	var out []Candidate
	for _, d := range ds {
		out = append(out, d.Detect(text)...)
	}
	return out
}

// biasForQuestion boosts exactly one category chosen by keyword membership.
// The first matching category wins; this is prioritization, not re-ranking.
func (a *Analyzer) biasForQuestion(b *Bundle, question string) {
	q := strings.ToLower(question)
	target := ""
	for _, category := range []string{CategoryCompany, CategoryPerson, CategoryTimeline, CategorySkill} {
		for _, hint := range a.vocab.QuestionHints[category] {
			if strings.Contains(q, hint) {
				target = category
				break
			}
		}
		if target != "" {
			break
		}
	}
	var list []Candidate
	switch target {
	case CategoryCompany:
		list = b.Companies
	case CategoryPerson:
		list = b.People
	case CategoryTimeline:
		list = b.Timeline
	case CategorySkill:
		list = b.Skills
	default:
		return
	}
	for i := range list {
		list[i].Confidence = min(1.0, list[i].Confidence+a.weights.QuestionBoost)
	}
}

func meanConfidence(b *Bundle) float64 {
	total := 0.0
	n := 0
	for _, list := range b.lists() {
		for _, c := range *list {
			total += c.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// cleanEntityName normalizes whitespace, strips leading articles and trailing
// punctuation.
func cleanEntityName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	lower := strings.ToLower(name)
	for _, prefix := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(strings.TrimRight(name, ".,;:!?"))
}
