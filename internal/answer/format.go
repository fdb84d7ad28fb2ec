package answer

import (
	"fmt"
	"regexp"
	"strings"
)

// Response length bounds, in characters.
const (
	minAnswerLen = 300
	maxAnswerLen = 500

	truncateTarget = 480 // leaves room for an ellipsis
)

var (
	reBold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reStrike     = regexp.MustCompile(`~~([^~]+)~~`)
	reCodeBlock  = regexp.MustCompile("```[\\s\\S]*?```")
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reHeading    = regexp.MustCompile(`(?m)^\s*#+\s*`)
	reHRule      = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	reBlockquote = regexp.MustCompile(`(?m)^\s*>\s*`)
	reListMarker = regexp.MustCompile(`(?m)^\s*[*\-+]\s+`)
	reNumMarker  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reNewlines   = regexp.MustCompile(`\n{2,}`)
	reSpaces     = regexp.MustCompile(` {2,}`)

	reSentenceEnd = regexp.MustCompile(`[.!?]+`)

	reTimelineHint = regexp.MustCompile(`(?i)\b(19|20)\d{2}|present|current|experience|years?\b`)
	reJobHint      = regexp.MustCompile(`(?i)\b(director|manager|founder|co-founder|lead|senior|ceo|cto)\b`)
	reCompanyHint  = regexp.MustCompile(`(?i)\b(tech|services|management|digital|company|organization)\b`)
	reSkillHint    = regexp.MustCompile(`(?i)\b(skill|expertise|specializ|focus|technology|development)\b`)
	reGenericHint  = regexp.MustCompile(`(?i)\b(key|main|primary|important|significant|founded|established)\b`)
)

// CleanMarkdown strips model markdown down to running plain text: emphasis
// and heading markers removed, code blocks dropped, list markers converted to
// bullets, whitespace collapsed.
func CleanMarkdown(s string) string {
	s = strings.TrimSpace(s)
	s = reBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = reUnderscore.ReplaceAllString(s, "$1")
	s = reStrike.ReplaceAllString(s, "$1")
	s = reCodeBlock.ReplaceAllString(s, "")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = reHeading.ReplaceAllString(s, "")
	s = reHRule.ReplaceAllString(s, "")
	s = reBlockquote.ReplaceAllString(s, "")
	s = reListMarker.ReplaceAllString(s, "• ")
	s = reNumMarker.ReplaceAllString(s, "• ")
	s = reNewlines.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FormatResponse cleans the raw model output and enforces the answer length
// window. Short answers get a helpful suffix; long answers are truncated
// sentence-wise, keeping sentences that match the question's structured
// flags first.
func FormatResponse(raw, question string, flags QuestionFlags) string {
	if strings.TrimSpace(raw) == "" {
		return fmt.Sprintf("I don't have specific information about '%s' in the available content. Ask me about other topics from the website.", question)
	}

	cleaned := CleanMarkdown(raw)
	switch n := len(cleaned); {
	case n >= minAnswerLen && n <= maxAnswerLen:
		return cleaned
	case n < minAnswerLen:
		if n < 100 {
			padded := cleaned + " For more specific information, please ask about particular aspects of the available content."
			if len(padded) <= maxAnswerLen {
				return padded
			}
		}
		return cleaned
	}
	return truncateSmart(cleaned, flags)
}

// truncateSmart rebuilds an oversized answer from its sentences, preferring
// sentences that carry the structured information the question asked about.
func truncateSmart(s string, flags QuestionFlags) string {
	var priority, regular []string
	for _, sentence := range reSentenceEnd.Split(s, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 10 {
			continue
		}
		if isPrioritySentence(sentence, flags) {
			priority = append(priority, sentence)
		} else {
			regular = append(regular, sentence)
		}
	}

	var parts []string
	count := 0
	for _, sentence := range priority {
		full := strings.TrimRight(sentence, ".!?") + "."
		if count+len(full)+1 <= truncateTarget {
			parts = append(parts, full)
			count += len(full) + 1
			continue
		}
		if count < minAnswerLen {
			remaining := truncateTarget - count - 4
			if remaining > 50 {
				partial := strings.TrimSpace(sentence[:remaining]) + "..."
				parts = append(parts, partial)
				count += len(partial)
			}
		}
		break
	}
	if count < 350 {
		for _, sentence := range regular {
			full := strings.TrimRight(sentence, ".!?") + "."
			if count+len(full)+1 > truncateTarget {
				break
			}
			parts = append(parts, full)
			count += len(full) + 1
			if count >= 400 {
				break
			}
		}
	}

	result := strings.TrimSpace(strings.Join(parts, " "))
	if len(result) > maxAnswerLen {
		result = result[:maxAnswerLen-3] + "..."
	} else if len(result) < minAnswerLen {
		suffix := " Ask for more specific details if needed."
		if len(result+suffix) <= maxAnswerLen {
			result += suffix
		}
	}
	return result
}

func isPrioritySentence(sentence string, flags QuestionFlags) bool {
	switch {
	case flags.Timeline && reTimelineHint.MatchString(sentence):
		return true
	case flags.JobTitle && reJobHint.MatchString(sentence):
		return true
	case flags.Company && reCompanyHint.MatchString(sentence):
		return true
	case flags.Skill && reSkillHint.MatchString(sentence):
		return true
	}
	return reGenericHint.MatchString(sentence)
}
