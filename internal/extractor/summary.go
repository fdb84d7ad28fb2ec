package extractor

import "strings"

// summaryThreshold filters the digest to high-confidence entities only.
const summaryThreshold = 0.7

// maxSummarySkills caps the skills segment of the digest.
const maxSummarySkills = 10

// Summarize renders a pipe-delimited digest of the bundle's high-confidence
// entities, grouped by category. The question only matters insofar as it was
// already applied as a confidence bias during Analyze; an empty bundle yields
// an empty string.
func Summarize(b Bundle, question string) string {
	var parts []string

	if names := highConfidenceNames(b.People, 0); len(names) > 0 {
		parts = append(parts, "People: "+strings.Join(names, ", "))
	}
	if names := highConfidenceNames(b.Companies, 0); len(names) > 0 {
		parts = append(parts, "Companies: "+strings.Join(names, ", "))
	}
	if names := highConfidenceNames(b.Roles, 0); len(names) > 0 {
		parts = append(parts, "Roles: "+strings.Join(names, ", "))
	}

	var timeline []string
	for _, c := range b.Timeline {
		if c.Confidence <= summaryThreshold {
			continue
		}
		switch c.Kind {
		case KindYearRange:
			timeline = append(timeline, c.Start+"-"+c.End)
		case KindSingleYear:
			timeline = append(timeline, c.Name)
		}
	}
	if len(timeline) > 0 {
		parts = append(parts, "Timeline: "+strings.Join(timeline, ", "))
	}

	if names := highConfidenceNames(b.Skills, maxSummarySkills); len(names) > 0 {
		parts = append(parts, "Skills: "+strings.Join(names, ", "))
	}
	if names := highConfidenceNames(b.Locations, 0); len(names) > 0 {
		parts = append(parts, "Locations: "+strings.Join(names, ", "))
	}

	return strings.Join(parts, " | ")
}

func highConfidenceNames(list []Candidate, limit int) []string {
	var names []string
	for _, c := range list {
		if c.Confidence > summaryThreshold {
			names = append(names, c.Name)
		}
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return names
}
