package answer

import (
	"fmt"
	"strings"

	"github.com/moin143264/UrlChatbotBackend/internal/extractor"
)

// Content excerpt sizes for the model context. Structured questions get a
// bigger window because the interesting data is often deep in the body.
const (
	structuredExcerpt = 2500
	standardExcerpt   = 1000
)

const entityConfidenceFloor = 0.7
const skillConfidenceFloor = 0.6
const maxSummarizedSkills = 10

// PageContext is one retrieved page plus its entity analysis, ready for
// context assembly.
type PageContext struct {
	URL             string
	Title           string
	MetaDescription string
	Keywords        string
	Content         string
	Bundle          extractor.Bundle
}

// BuildContext renders the retrieved pages and their merged entity analysis
// into the context block handed to the model.
func BuildContext(pages []PageContext, question string, flags QuestionFlags) string {
	var b strings.Builder
	for _, p := range pages {
		var parts []string
		if p.Title != "" {
			parts = append(parts, "Title: "+p.Title)
		}
		if p.MetaDescription != "" {
			parts = append(parts, "Description: "+p.MetaDescription)
		}
		if p.Keywords != "" {
			parts = append(parts, "Keywords: "+p.Keywords)
		}
		if digest := extractor.Summarize(p.Bundle, question); digest != "" {
			parts = append(parts, "Smart Analysis: "+digest)
		}
		if p.Content != "" {
			excerpt := standardExcerpt
			if flags.Structured() {
				excerpt = structuredExcerpt
			}
			content := p.Content
			if len(content) > excerpt {
				content = content[:excerpt]
			}
			parts = append(parts, "Content: "+content)
		}
		b.WriteString("• " + strings.Join(parts, " | ") + "\n\n")
	}

	if summary := entitySummary(mergeBundles(pages)); summary != "" {
		b.WriteString("\n=== ENTITY EXTRACTION ===\n")
		b.WriteString(summary)
		b.WriteString("\n=== END ANALYSIS ===\n\n")
	}
	return b.String()
}

// mergeBundles folds each page's analysis into one bundle for the summary
// footer. Per-category dedup happens during rendering.
func mergeBundles(pages []PageContext) extractor.Bundle {
	var merged extractor.Bundle
	for _, p := range pages {
		merged.People = append(merged.People, p.Bundle.People...)
		merged.Companies = append(merged.Companies, p.Bundle.Companies...)
		merged.Roles = append(merged.Roles, p.Bundle.Roles...)
		merged.Timeline = append(merged.Timeline, p.Bundle.Timeline...)
		merged.Skills = append(merged.Skills, p.Bundle.Skills...)
	}
	return merged
}

func entitySummary(b extractor.Bundle) string {
	var lines []string
	if names := confidentNames(b.Companies, entityConfidenceFloor, 0); len(names) > 0 {
		lines = append(lines, "COMPANIES IDENTIFIED: "+strings.Join(names, ", "))
	}
	if names := confidentNames(b.People, entityConfidenceFloor, 0); len(names) > 0 {
		lines = append(lines, "PEOPLE IDENTIFIED: "+strings.Join(names, ", "))
	}
	if names := confidentNames(b.Roles, entityConfidenceFloor, 0); len(names) > 0 {
		lines = append(lines, "ROLES IDENTIFIED: "+strings.Join(names, ", "))
	}
	var timeline []string
	seen := map[string]struct{}{}
	for _, c := range b.Timeline {
		if c.Confidence <= entityConfidenceFloor {
			continue
		}
		var span string
		switch c.Kind {
		case extractor.KindYearRange:
			span = c.Start + "-" + c.End
		case extractor.KindSingleYear:
			span = c.Name
		default:
			continue
		}
		if _, dup := seen[span]; dup {
			continue
		}
		seen[span] = struct{}{}
		timeline = append(timeline, span)
	}
	if len(timeline) > 0 {
		lines = append(lines, "TIMELINE IDENTIFIED: "+strings.Join(timeline, ", "))
	}
	if names := confidentNames(b.Skills, skillConfidenceFloor, maxSummarizedSkills); len(names) > 0 {
		lines = append(lines, "SKILLS IDENTIFIED: "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

func confidentNames(list []extractor.Candidate, floor float64, limit int) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, c := range list {
		if c.Confidence <= floor {
			continue
		}
		key := strings.ToLower(c.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, c.Name)
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return names
}

// BuildPrompt assembles the final model prompt from the context block, the
// question and its task instruction.
func BuildPrompt(context, question string, flags QuestionFlags) string {
	instruction := Instruction(question, flags)
	return fmt.Sprintf(`CONTENT ANALYSIS WITH ENTITY RECOGNITION:
%s
QUESTION: %s

TASK: %s

RESPONSE REQUIREMENTS:
- LENGTH: 300-500 characters including spaces
- Use exact names, dates, and terms from the entity extraction block
- Prefer specific extracted entities over generic descriptions
- For company questions list specific company names, never "various companies"
- For timeline questions use the specific years and periods found

If no relevant information is available, respond: "I don't have specific information about this topic in the available content. Ask me about other topics from the website."

Provide your response now:`, context, question, instruction)
}

// NoContextReply is returned when search produced nothing usable.
func NoContextReply(question string) string {
	return fmt.Sprintf(`I couldn't find specific information about "%s" in the website content I currently have access to.

Here are some suggestions:
• Try rephrasing your question with different keywords
• Ask about general topics like "experience", "background", "services", or "about"
• If asking about specific details, try broader questions first
• Make sure the website has been fully scraped and indexed

I'm here to help with any information that's available from the website content!`, question)
}
