package extractor

import (
	"fmt"
	"regexp"
	"strings"
)

// Detector is a single extraction heuristic. Detectors are independent and
// composed into per-category pipelines by the Analyzer; each one scans the
// whole text and returns zero or more candidates.
type Detector interface {
	Name() string
	Detect(text string) []Candidate
}

// capitalized-word phrase, e.g. "Troika Tech" or "Co-Founder".
const capPhrase = `[A-Z][A-Za-z&.-]*(?:\s+[A-Z][A-Za-z&.-]*)*`

// properName is stricter: strictly-cased words only, for person names.
const properName = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`

// ---- companies ----

type companySuffixDetector struct {
	weight float64
	re     *regexp.Regexp
}

func newCompanySuffixDetector(v Vocabulary, w Weights) *companySuffixDetector {
	alt := strings.Join(v.CompanySuffixes, "|")
	return &companySuffixDetector{
		weight: w.CompanySuffix,
		re:     regexp.MustCompile(`\b(` + capPhrase + `)\s+((?i:` + alt + `))\b`),
	}
}

func (d *companySuffixDetector) Name() string { return "company_suffix" }

func (d *companySuffixDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, m := range d.re.FindAllStringSubmatch(text, -1) {
		name := cleanEntityName(m[1] + " " + m[2])
		if name == "" {
			continue
		}
		out = append(out, Candidate{
			Name:       name,
			Kind:       "business_suffix",
			Confidence: d.weight,
			Context:    fmt.Sprintf("business suffix: %s", m[2]),
		})
	}
	return out
}

type companyContextDetector struct {
	weight float64
	res    []*regexp.Regexp
}

func newCompanyContextDetector(w Weights) *companyContextDetector {
	return &companyContextDetector{
		weight: w.CompanyJobContext,
		res: []*regexp.Regexp{
			regexp.MustCompile(`(?i:co-founder|founder|director|manager|ceo|cto|owner|president|head|lead)\s+(?i:at|of|for)\s+(` + capPhrase + `)`),
			regexp.MustCompile(`(?i:works)\s+(?i:at|for)\s+(` + capPhrase + `)`),
			regexp.MustCompile(`(?i:employed)\s+(?i:by|at)\s+(` + capPhrase + `)`),
			regexp.MustCompile(`(?i:joined)\s+(` + capPhrase + `)`),
		},
	}
}

func (d *companyContextDetector) Name() string { return "company_job_context" }

func (d *companyContextDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, re := range d.res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := cleanEntityName(m[1])
			if len(name) <= 2 {
				continue
			}
			out = append(out, Candidate{
				Name:       name,
				Kind:       "job_context",
				Confidence: d.weight,
				Context:    "job/role context",
			})
		}
	}
	return out
}

type companyTimelineDetector struct {
	weight float64
	re     *regexp.Regexp
}

func newCompanyTimelineDetector(w Weights) *companyTimelineDetector {
	return &companyTimelineDetector{
		weight: w.CompanyTimeline,
		re:     regexp.MustCompile(`(\d{4})\s*[-–—]\s*(?:(?i:present|current)|\d{4})\s+[^-–—\n]*?[-–—]\s*(` + capPhrase + `)`),
	}
}

func (d *companyTimelineDetector) Name() string { return "company_timeline" }

func (d *companyTimelineDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, m := range d.re.FindAllStringSubmatch(text, -1) {
		name := cleanEntityName(m[2])
		if len(name) <= 2 {
			continue
		}
		out = append(out, Candidate{
			Name:       name,
			Kind:       "timeline",
			Confidence: d.weight,
			Context:    fmt.Sprintf("timeline starting %s", m[1]),
		})
	}
	return out
}

// ---- people ----

type personTitleDetector struct {
	weight float64
	res    map[string]*regexp.Regexp // title -> pattern
	order  []string
}

func newPersonTitleDetector(v Vocabulary, w Weights) *personTitleDetector {
	d := &personTitleDetector{weight: w.PersonTitle, res: map[string]*regexp.Regexp{}, order: v.PersonTitles}
	for _, title := range v.PersonTitles {
		d.res[title] = regexp.MustCompile(`\b(?i:` + regexp.QuoteMeta(title) + `)\.?\s+(` + properName + `)\b`)
	}
	return d
}

func (d *personTitleDetector) Name() string { return "person_title" }

func (d *personTitleDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, title := range d.order {
		for _, m := range d.res[title].FindAllStringSubmatch(text, -1) {
			out = append(out, Candidate{
				Name:       m[1],
				Kind:       "titled",
				Confidence: d.weight,
				Context:    fmt.Sprintf("found with title: %s", title),
			})
		}
	}
	return out
}

type personContextDetector struct {
	weight float64
	res    []*regexp.Regexp
}

func newPersonContextDetector(w Weights) *personContextDetector {
	return &personContextDetector{
		weight: w.PersonContext,
		res: []*regexp.Regexp{
			regexp.MustCompile(`(?i:founded by|created by|developed by)\s+(` + properName + `)`),
			regexp.MustCompile(`(` + properName + `)\s+(?i:is)\s+(?i:a|an|the)\s+(?i:founder|director|manager|ceo)`),
			regexp.MustCompile(`(` + properName + `)\s+(?i:founded|established)\b`),
		},
	}
}

func (d *personContextDetector) Name() string { return "person_context" }

func (d *personContextDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, re := range d.res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			// cap at three tokens to reject sentence fragments
			if len(strings.Fields(m[1])) > 3 {
				continue
			}
			out = append(out, Candidate{
				Name:       m[1],
				Kind:       "professional_context",
				Confidence: d.weight,
				Context:    "professional context",
			})
		}
	}
	return out
}

// ---- roles ----

// roleDetector is a presence test over the fixed role taxonomy: a role is
// reported once if it, its plural, or a seniority-prefixed form occurs
// anywhere in the text.
type roleDetector struct {
	weight float64
	roles  []roleEntry
}

type roleEntry struct {
	title    string
	category string
	res      []*regexp.Regexp
}

func newRoleDetector(v Vocabulary, w Weights) *roleDetector {
	d := &roleDetector{weight: w.Role}
	for _, category := range []string{"executive", "leadership", "technical", "business"} {
		for _, role := range v.Roles[category] {
			quoted := regexp.QuoteMeta(role)
			d.roles = append(d.roles, roleEntry{
				title:    role,
				category: category,
				res: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b` + quoted + `s?\b`),
					regexp.MustCompile(`(?i)\b(?:senior|lead|junior|assistant)\s+` + quoted + `\b`),
				},
			})
		}
	}
	return d
}

func (d *roleDetector) Name() string { return "role_taxonomy" }

func (d *roleDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, entry := range d.roles {
		for _, re := range entry.res {
			if re.MatchString(text) {
				out = append(out, Candidate{
					Name:       entry.title,
					Category:   entry.category,
					Confidence: d.weight,
					Context:    fmt.Sprintf("found as %s role", entry.category),
				})
				break
			}
		}
	}
	return out
}

// ---- timeline ----

type timelineDetector struct {
	weights    Weights
	yearRange  *regexp.Regexp
	singleYear *regexp.Regexp
	dates      []*regexp.Regexp
}

func newTimelineDetector(w Weights) *timelineDetector {
	return &timelineDetector{
		weights:    w,
		yearRange:  regexp.MustCompile(`\b((?:19|20)\d{2})\s*[-–—]\s*((?i:present|current|now)|(?:19|20)\d{2})\b`),
		singleYear: regexp.MustCompile(`\b((?:19|20)\d{2})\b`),
		dates: []*regexp.Regexp{
			regexp.MustCompile(`\b(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(?:19|20)\d{2}\b`),
			regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-](?:19|20)\d{2}\b`),
			regexp.MustCompile(`\b(?:19|20)\d{2}[/-]\d{1,2}[/-]\d{1,2}\b`),
		},
	}
}

func (d *timelineDetector) Name() string { return "timeline" }

func (d *timelineDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, m := range d.yearRange.FindAllStringSubmatch(text, -1) {
		out = append(out, Candidate{
			Name:       m[1] + "-" + m[2],
			Kind:       KindYearRange,
			Start:      m[1],
			End:        m[2],
			Confidence: d.weights.YearRange,
			Context:    fmt.Sprintf("experience period: %s-%s", m[1], m[2]),
		})
	}
	for _, m := range d.singleYear.FindAllStringSubmatch(text, -1) {
		out = append(out, Candidate{
			Name:       m[1],
			Kind:       KindSingleYear,
			Confidence: d.weights.SingleYear,
			Context:    fmt.Sprintf("mentioned year: %s", m[1]),
		})
	}
	for _, re := range d.dates {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, Candidate{
				Name:       m,
				Kind:       KindFormattedDate,
				Confidence: d.weights.FormattedDate,
				Context:    fmt.Sprintf("formatted date: %s", m),
			})
		}
	}
	return out
}

// ---- skills ----

type skillVocabularyDetector struct {
	weight float64
	skills []skillEntry
}

type skillEntry struct {
	name     string
	category string
	re       *regexp.Regexp
}

func newSkillVocabularyDetector(v Vocabulary, w Weights) *skillVocabularyDetector {
	d := &skillVocabularyDetector{weight: w.SkillVocabulary}
	for _, category := range []string{"programming", "frameworks", "tools", "business_skills"} {
		for _, skill := range v.Skills[category] {
			// custom boundaries: \b misbehaves around "c++" and "node.js"
			re := regexp.MustCompile(`(?i)(?:^|[^a-z0-9+])` + regexp.QuoteMeta(skill) + `(?:$|[^a-z0-9+])`)
			d.skills = append(d.skills, skillEntry{name: skill, category: category, re: re})
		}
	}
	return d
}

func (d *skillVocabularyDetector) Name() string { return "skill_vocabulary" }

func (d *skillVocabularyDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, entry := range d.skills {
		if entry.re.MatchString(text) {
			out = append(out, Candidate{
				Name:       entry.name,
				Category:   entry.category,
				Confidence: d.weight,
				Context:    fmt.Sprintf("found %s skill: %s", entry.category, entry.name),
			})
		}
	}
	return out
}

type skillPhraseDetector struct {
	weight float64
	res    []*regexp.Regexp
}

func newSkillPhraseDetector(w Weights) *skillPhraseDetector {
	phrases := []string{"skilled in", "expertise in", "specializes in", "experienced with", "proficient in"}
	d := &skillPhraseDetector{weight: w.SkillPhrase}
	for _, p := range phrases {
		d.res = append(d.res, regexp.MustCompile(`(?i)`+p+`\s+([^,.;\n]+)`))
	}
	return d
}

func (d *skillPhraseDetector) Name() string { return "skill_phrase" }

func (d *skillPhraseDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, re := range d.res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if name == "" {
				continue
			}
			out = append(out, Candidate{
				Name:       name,
				Category:   "mentioned_skill",
				Confidence: d.weight,
				Context:    fmt.Sprintf("explicitly mentioned skill: %s", name),
			})
		}
	}
	return out
}

// ---- locations ----

type locationDetector struct {
	indicator float64
	address   float64
	hints     []*regexp.Regexp
	hintNames []string
	formats   []*regexp.Regexp
}

func newLocationDetector(v Vocabulary, w Weights) *locationDetector {
	d := &locationDetector{indicator: w.LocationIndicator, address: w.LocationAddress, hintNames: v.LocationHints}
	for _, hint := range v.LocationHints {
		d.hints = append(d.hints, regexp.MustCompile(`(?i:`+hint+`)\s+(?:(?i:in|at)\s+)?(`+properName+`)`))
	}
	d.formats = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+,\s*[A-Z][a-z]+\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+,\s*[A-Z]{2}\b`),
		regexp.MustCompile(`\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd)\b`),
	}
	return d
}

func (d *locationDetector) Name() string { return "location" }

func (d *locationDetector) Detect(text string) []Candidate {
	var out []Candidate
	for i, re := range d.hints {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			out = append(out, Candidate{
				Name:       strings.TrimSpace(m[1]),
				Kind:       "indicated_location",
				Confidence: d.indicator,
				Context:    fmt.Sprintf("found with indicator: %s", d.hintNames[i]),
			})
		}
	}
	for _, re := range d.formats {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, Candidate{
				Name:       m,
				Kind:       "formatted_address",
				Confidence: d.address,
				Context:    "formatted address pattern",
			})
		}
	}
	return out
}

// ---- projects / achievements ----

type projectDetector struct {
	weight float64
	res    []*regexp.Regexp
	hints  []string
}

func newProjectDetector(v Vocabulary, w Weights) *projectDetector {
	d := &projectDetector{weight: w.Project, hints: v.ProjectHints}
	for _, hint := range v.ProjectHints {
		d.res = append(d.res, regexp.MustCompile(`(?i:`+hint+`)\s+(`+capPhrase+`)`))
	}
	return d
}

func (d *projectDetector) Name() string { return "project" }

func (d *projectDetector) Detect(text string) []Candidate {
	var out []Candidate
	for i, re := range d.res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) <= 3 {
				continue
			}
			out = append(out, Candidate{
				Name:       name,
				Kind:       "project",
				Confidence: d.weight,
				Context:    fmt.Sprintf("found with indicator: %s", d.hints[i]),
			})
		}
	}
	return out
}

type achievementDetector struct {
	weight float64
	res    []*regexp.Regexp
	hints  []string
}

func newAchievementDetector(v Vocabulary, w Weights) *achievementDetector {
	d := &achievementDetector{weight: w.Achievement, hints: v.AchievementHints}
	for _, hint := range v.AchievementHints {
		d.res = append(d.res, regexp.MustCompile(`(?i:`+hint+`)\s+([^,.;\n]+)`))
	}
	return d
}

func (d *achievementDetector) Name() string { return "achievement" }

func (d *achievementDetector) Detect(text string) []Candidate {
	var out []Candidate
	for i, re := range d.res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			desc := strings.TrimSpace(m[1])
			if len(desc) <= 5 {
				continue
			}
			out = append(out, Candidate{
				Name:       desc,
				Kind:       "achievement",
				Confidence: d.weight,
				Context:    fmt.Sprintf("achievement with indicator: %s", d.hints[i]),
			})
		}
	}
	return out
}

// ---- contacts / statistics ----

type contactDetector struct {
	weights Weights
	email   *regexp.Regexp
	phone   *regexp.Regexp
	website *regexp.Regexp
}

func newContactDetector(w Weights) *contactDetector {
	return &contactDetector{
		weights: w,
		email:   regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
		phone:   regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		website: regexp.MustCompile(`(?i)https?://[^\s<>"']+|www\.[^\s<>"']+\.[a-z]{2,}`),
	}
}

func (d *contactDetector) Name() string { return "contact" }

func (d *contactDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, m := range d.email.FindAllString(text, -1) {
		out = append(out, Candidate{Name: m, Kind: "email", Confidence: d.weights.ContactEmail})
	}
	for _, m := range d.phone.FindAllString(text, -1) {
		out = append(out, Candidate{Name: strings.TrimSpace(m), Kind: "phone", Confidence: d.weights.ContactPhone})
	}
	for _, m := range d.website.FindAllString(text, -1) {
		out = append(out, Candidate{Name: m, Kind: "website", Confidence: d.weights.ContactWebsite})
	}
	return out
}

type statisticDetector struct {
	weight float64
	res    []*regexp.Regexp
}

func newStatisticDetector(w Weights) *statisticDetector {
	return &statisticDetector{
		weight: w.Statistic,
		res: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*\+?\s*(?:users|clients|customers|employees|years|months)\b`),
			regexp.MustCompile(`(?i)\$\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:million|billion|thousand)?\b`),
			regexp.MustCompile(`(?i)\b\d+%\s*(?:growth|increase|improvement|success)\b`),
		},
	}
}

func (d *statisticDetector) Name() string { return "statistic" }

func (d *statisticDetector) Detect(text string) []Candidate {
	var out []Candidate
	for _, re := range d.res {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, Candidate{
				Name:       m,
				Kind:       "statistic",
				Confidence: d.weight,
				Context:    "numerical statistic or metric",
			})
		}
	}
	return out
}
