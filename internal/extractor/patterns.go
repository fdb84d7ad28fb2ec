package extractor

// Vocabulary holds the fixed pattern tables used by the detectors. The tables
// are constant configuration: build one with DefaultVocabulary and inject it
// into NewAnalyzer instead of reaching for package globals.
type Vocabulary struct {
	PersonTitles     []string
	CompanySuffixes  []string
	ArticlePrefixes  []string
	Roles            map[string][]string
	Skills           map[string][]string
	LocationHints    []string
	ProjectHints     []string
	AchievementHints []string
	QuestionHints    map[string][]string
}

// DefaultVocabulary returns the built-in pattern tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		PersonTitles: []string{"mr", "mrs", "ms", "dr", "prof", "sir", "madam"},
		CompanySuffixes: []string{
			"services", "tech", "technologies", "management", "plus", "digital",
			"corp", "corporation", "inc", "incorporated", "ltd", "limited",
			"llc", "group", "solutions", "systems", "company", "co", "enterprises",
			"consulting", "consultancy", "agency", "studio", "labs", "works",
			"partners", "associates", "holdings", "ventures", "capital", "media",
			"communications", "marketing", "advertising", "design", "development",
		},
		ArticlePrefixes: []string{"the ", "a ", "an "},
		Roles: map[string][]string{
			"executive": {
				"ceo", "chief executive officer", "cto", "chief technology officer",
				"cfo", "chief financial officer", "coo", "chief operating officer",
				"president", "vice president", "vp", "executive director",
			},
			"leadership": {
				"founder", "co-founder", "director", "managing director", "head",
				"lead", "team lead", "manager", "senior manager", "general manager",
				"project manager", "product manager", "program manager",
			},
			"technical": {
				"developer", "engineer", "software engineer", "senior developer",
				"lead developer", "architect", "technical lead", "tech lead",
				"analyst", "consultant", "specialist", "expert", "advisor",
			},
			"business": {
				"strategist", "coordinator", "supervisor",
				"administrator", "executive", "officer", "representative", "agent",
			},
		},
		Skills: map[string][]string{
			"programming": {
				"python", "javascript", "java", "c++", "c#", "php", "ruby", "go",
				"swift", "kotlin", "typescript", "scala", "rust", "html", "css",
				"sql", "nosql", "mongodb", "mysql", "postgresql", "redis",
			},
			"frameworks": {
				"react", "angular", "vue", "django", "flask", "spring", "laravel",
				"express", "fastapi", "bootstrap", "tailwind", "jquery", "node.js",
			},
			"tools": {
				"git", "docker", "kubernetes", "aws", "azure", "gcp", "jenkins",
				"gitlab", "github", "jira", "confluence", "slack", "teams",
			},
			"business_skills": {
				"management", "leadership", "strategy", "planning", "analysis",
				"marketing", "sales", "consulting", "project management",
				"business development", "operations", "finance", "accounting",
			},
		},
		LocationHints: []string{"located", "based", "headquarters", "office", "address"},
		ProjectHints: []string{
			"project", "developed", "created", "built", "launched", "implemented",
			"designed", "worked on", "contributed to", "led", "managed",
		},
		AchievementHints: []string{
			"achieved", "accomplished", "awarded", "recognized", "honored",
			"certified", "graduated", "completed", "successful", "winner",
		},
		QuestionHints: map[string][]string{
			CategoryCompany:  {"company", "companies", "business", "organization"},
			CategoryPerson:   {"who", "person", "people", "name"},
			CategoryTimeline: {"when", "timeline", "experience", "years"},
			CategorySkill:    {"skill", "technology", "expertise"},
		},
	}
}

// Weights holds the per-detector confidence constants. The relative ordering
// matters more than the exact values, so they live in configuration rather
// than being hard-coded in each detector.
type Weights struct {
	CompanySuffix     float64
	CompanyJobContext float64
	CompanyTimeline   float64

	PersonTitle   float64
	PersonContext float64

	Role float64

	YearRange     float64
	SingleYear    float64
	FormattedDate float64

	SkillVocabulary float64
	SkillPhrase     float64

	LocationIndicator float64
	LocationAddress   float64

	Project     float64
	Achievement float64

	ContactEmail   float64
	ContactPhone   float64
	ContactWebsite float64

	Statistic float64

	QuestionBoost float64
}

// DefaultWeights returns the tuned confidence constants. Ordering invariant:
// suffix < timeline-anchored for companies, vocabulary < explicit-mention for
// skills, bare year < formatted date < year range for timeline entries.
func DefaultWeights() Weights {
	return Weights{
		CompanySuffix:     0.85,
		CompanyJobContext: 0.8,
		CompanyTimeline:   0.9,

		PersonTitle:   0.9,
		PersonContext: 0.8,

		Role: 0.8,

		YearRange:     0.9,
		SingleYear:    0.7,
		FormattedDate: 0.8,

		SkillVocabulary: 0.7,
		SkillPhrase:     0.8,

		LocationIndicator: 0.8,
		LocationAddress:   0.9,

		Project:     0.6,
		Achievement: 0.7,

		ContactEmail:   0.95,
		ContactPhone:   0.9,
		ContactWebsite: 0.8,

		Statistic: 0.8,

		QuestionBoost: 0.1,
	}
}
