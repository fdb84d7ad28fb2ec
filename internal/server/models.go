package server

import "time"

// AuthSignupRequest is the payload for POST /api/auth/signup.
type AuthSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthLoginRequest is the payload for POST /api/auth/login.
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse returns the session token for Bearer flows.
type TokenResponse struct {
	Token string `json:"token"`
}

// HTTPError is the unified error body.
type HTTPError struct {
	Error string `json:"error"`
}

// ScrapeRequest is the payload for POST /api/scrape-sitemap.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeResponse acknowledges a crawl kickoff.
type ScrapeResponse struct {
	SourceID int64  `json:"source_id"`
	Status   string `json:"status"`
}

// ChatRequest is the payload for POST /api/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatMessageResponse is one history entry.
type ChatMessageResponse struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Sources   []string  `json:"sources"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceResponse describes a registered sitemap source.
type SourceResponse struct {
	ID         int64      `json:"id"`
	URL        string     `json:"url"`
	Status     string     `json:"status"`
	PagesFound int        `json:"pages_found"`
	LastError  string     `json:"last_error,omitempty"`
	CrawledAt  *time.Time `json:"crawled_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// StatsResponse is the aggregate index state.
type StatsResponse struct {
	TotalPages   int64      `json:"total_pages"`
	ScrapedPages int64      `json:"scraped_pages"`
	FailedPages  int64      `json:"failed_pages"`
	TotalChunks  int64      `json:"total_chunks"`
	Sources      int64      `json:"sources"`
	Users        int64      `json:"users"`
	ChatMessages int64      `json:"chat_messages"`
	LastScrape   *time.Time `json:"last_scrape,omitempty"`
}

// ScrapingStatusResponse reports crawl progress for one source.
type ScrapingStatusResponse struct {
	SourceID   int64   `json:"source_id"`
	URL        string  `json:"url,omitempty"`
	Status     string  `json:"status"`
	TotalURLs  int     `json:"total_urls"`
	Scraped    int     `json:"scraped"`
	Failed     int     `json:"failed"`
	Percent    float64 `json:"percent"`
	PagesFound int     `json:"pages_found"`
	LastError  string  `json:"last_error,omitempty"`
}
