package extractor

import "strings"

// Entity categories surfaced in a Bundle.
const (
	CategoryPerson      = "person"
	CategoryCompany     = "company"
	CategoryRole        = "role"
	CategoryTimeline    = "timeline"
	CategorySkill       = "skill"
	CategoryLocation    = "location"
	CategoryProject     = "project"
	CategoryAchievement = "achievement"
	CategoryContact     = "contact"
	CategoryStatistic   = "statistic"
)

// Timeline candidate kinds.
const (
	KindYearRange     = "year_range"
	KindSingleYear    = "single_year"
	KindFormattedDate = "formatted_date"
)

// Candidate is a single typed, confidence-scored extraction.
type Candidate struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind,omitempty"`     // detector-specific subtype
	Category   string  `json:"category,omitempty"` // role/skill grouping
	Start      string  `json:"start,omitempty"`    // year-range begin
	End        string  `json:"end,omitempty"`      // year-range end
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context,omitempty"`
}

// Bundle is the full analysis output for one text blob.
type Bundle struct {
	People       []Candidate `json:"people"`
	Companies    []Candidate `json:"companies"`
	Roles        []Candidate `json:"roles"`
	Timeline     []Candidate `json:"timeline"`
	Skills       []Candidate `json:"skills"`
	Locations    []Candidate `json:"locations"`
	Projects     []Candidate `json:"projects"`
	Achievements []Candidate `json:"achievements"`
	Contacts     []Candidate `json:"contacts"`
	Statistics   []Candidate `json:"statistics"`

	// Confidence is the mean of all per-candidate confidences, 0 when the
	// bundle is empty.
	Confidence float64 `json:"confidence"`
}

// IsEmpty reports whether the bundle holds no candidates at all.
func (b Bundle) IsEmpty() bool {
	return len(b.People)+len(b.Companies)+len(b.Roles)+len(b.Timeline)+
		len(b.Skills)+len(b.Locations)+len(b.Projects)+len(b.Achievements)+
		len(b.Contacts)+len(b.Statistics) == 0
}

func (b *Bundle) lists() []*[]Candidate {
	return []*[]Candidate{
		&b.People, &b.Companies, &b.Roles, &b.Timeline, &b.Skills,
		&b.Locations, &b.Projects, &b.Achievements, &b.Contacts, &b.Statistics,
	}
}

// dedupeCandidates drops repeats by case-insensitive name, keeping the first
// occurrence. No fuzzy merging.
func dedupeCandidates(in []Candidate) []Candidate {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, c := range in {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
