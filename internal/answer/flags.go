package answer

import "strings"

// QuestionFlags records which structured-content angles a question touches.
// They steer context sizing, the model instruction and response truncation.
type QuestionFlags struct {
	Timeline bool
	JobTitle bool
	Company  bool
	Skill    bool
}

// Structured reports whether any structured-content flag is set.
func (f QuestionFlags) Structured() bool {
	return f.Timeline || f.JobTitle || f.Company || f.Skill
}

var timelineWords = []string{
	"timeline", "experience", "career", "history", "when did", "how long", "years", "since when",
	"worked", "started", "joined", "founded", "established", "began", "duration", "period",
}

var jobTitleWords = []string{
	"job", "title", "position", "role", "designation", "what does", "works as", "employed as",
	"director", "manager", "founder", "ceo", "lead", "head", "senior", "junior", "analyst",
}

var companyWords = []string{
	"company", "companies", "organization", "business", "firm", "employer", "workplace",
	"works at", "works for", "employed by", "founded", "owns", "runs", "manages",
}

var companyPhrases = []string{
	"list company", "list companies", "give me company", "show me company", "tell me company",
	"company names", "company list", "all companies", "what companies", "which companies",
	"name of company", "names of companies", "business names", "organization names",
	"companies he founded", "companies he owns", "companies he runs", "companies he manages",
	"businesses he started", "organizations he created", "firms he established",
}

var skillWords = []string{
	"skill", "skills", "expertise", "specialization", "focus", "area", "responsibility",
	"good at", "expert in", "specializes", "focuses on", "experienced in", "knowledge",
}

// ClassifyQuestion derives the structured-content flags from the question
// text. companiesDetected marks that entity extraction already found company
// names in the retrieved content, which promotes the question to a company
// question even without company keywords.
func ClassifyQuestion(question string, companiesDetected bool) QuestionFlags {
	q := strings.ToLower(question)
	anyOf := func(patterns []string) bool {
		for _, p := range patterns {
			if strings.Contains(q, p) {
				return true
			}
		}
		return false
	}
	return QuestionFlags{
		Timeline: anyOf(timelineWords),
		JobTitle: anyOf(jobTitleWords),
		Company:  anyOf(companyWords) || anyOf(companyPhrases) || companiesDetected,
		Skill:    anyOf(skillWords),
	}
}

// Instruction picks the model task description for the question. Flags win
// over the generic keyword buckets; the order mirrors their priority.
func Instruction(question string, flags QuestionFlags) string {
	q := strings.ToLower(question)
	anyOf := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}

	switch {
	case flags.Timeline:
		return "Extract and present ALL timeline information, dates, years, experience periods, and career progression details. Present them chronologically."
	case flags.JobTitle:
		return "Extract and list ALL job titles, positions, roles, and professional designations mentioned. Include current and past positions."
	case flags.Company:
		return "Extract ALL company names, organizations, businesses, and employers mentioned. Include current, past, founded and managed companies, and format them as a clear list. Chunks starting with \"Companies:\" or \"Company:\" contain pre-extracted company data."
	case flags.Skill:
		return "Extract and describe ALL skills, expertise areas, specializations, responsibilities, and professional focus areas mentioned."
	case anyOf("what is", "what are", "define", "explain"):
		return "Provide a comprehensive explanation using ALL available information. Include specific details, examples, and context from the website content."
	case anyOf("how much", "price", "cost", "fee", "pricing"):
		return "Focus on ALL pricing, costs, or fee information. Be specific with numbers, currency, and payment details."
	case anyOf("when", "time", "hours", "schedule", "date"):
		return "Provide ALL timing, schedule, date, and availability information."
	case anyOf("where", "location", "address", "find"):
		return "Provide ALL location, address, and geographical information, as specifically as possible."
	case anyOf("how to", "how do", "how can", "steps"):
		return "Provide clear, detailed steps and instructions. Include all relevant procedures and processes."
	case anyOf("who", "contact", "team", "staff"):
		return "Provide information about ALL people, contacts, team members, and staff mentioned. Include names, titles, and roles."
	case anyOf("why", "because", "reason"):
		return "Explain ALL reasoning, benefits, rationale, and explanations based on the website content."
	case strings.Contains(question, "?"):
		return "Answer the question comprehensively using ALL available information."
	default:
		return "Provide ALL helpful, relevant information based on the website content."
	}
}
