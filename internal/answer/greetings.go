// Package answer turns a user question plus search results into a bounded,
// plain-text reply: conversational shortcuts, question classification,
// context assembly for the language model, and strict response formatting.
package answer

import "strings"

// greetingPatterns flag small talk that should never hit search or the model.
var greetingPatterns = []string{
	"hi", "hello", "hey", "hii", "helo", "hii there", "hello there",
	"how are you", "how r u", "how are u", "whats up", "what's up",
	"good morning", "good afternoon", "good evening", "good night",
	"thanks", "thank you", "bye", "goodbye", "see you", "nice to meet you",
}

// restrictedPatterns are clearly off-topic requests the bot declines.
var restrictedPatterns = []string{
	"write code for", "debug this code", "fix this error", "create a program",
	"solve this math equation", "calculate the derivative", "integrate this function",
	"recipe for cooking", "how to cook", "weather forecast", "stock market",
	"current news", "latest news", "sports scores", "movie reviews",
}

const restrictedReply = "I specialize in helping with information from this website. " +
	"For coding help, math problems, recipes, or current news, please use specialized tools. " +
	"What can I help you find on this website?"

// matchPattern checks a pattern against the question. Multi-word patterns use
// substring containment; single words must match a whole word so that "hi"
// does not fire inside "which" or "this".
func matchPattern(q, pattern string) bool {
	if strings.ContainsRune(pattern, ' ') {
		return strings.Contains(q, pattern)
	}
	for _, w := range strings.FieldsFunc(q, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	}) {
		if w == pattern {
			return true
		}
	}
	return false
}

// Greeting returns a canned conversational reply when the question is small
// talk rather than a content question.
func Greeting(question string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(question))
	matched := false
	for _, p := range greetingPatterns {
		if matchPattern(q, p) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if matchPattern(q, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("hi", "hello", "hey", "hii", "helo"):
		return "Hello! I'm your AI assistant. I can help you find information from the scraped websites. What would you like to know?", true
	case containsAny("how are you", "how r u", "how are u"):
		return "I'm doing great, thank you for asking! I'm here to help you with information from your scraped websites. How can I assist you today?", true
	case containsAny("whats up", "what's up"):
		return "Not much, just ready to help you find information from your scraped content! What can I help you with?", true
	case containsAny("thanks", "thank you"):
		return "You're welcome! I'm always here to help with questions about your scraped website content.", true
	case containsAny("bye", "goodbye", "see you"):
		return "Goodbye! Feel free to come back anytime if you have questions about your website content.", true
	case containsAny("good morning", "good afternoon", "good evening"):
		return "Good day to you too! I'm ready to help you with any questions about your scraped website content.", true
	default:
		return "Hello! I'm here to help you find information from your scraped websites. What would you like to know?", true
	}
}

// Restricted returns a polite refusal for questions that are clearly outside
// the site's content.
func Restricted(question string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, p := range restrictedPatterns {
		if strings.Contains(q, p) {
			return restrictedReply, true
		}
	}
	return "", false
}
