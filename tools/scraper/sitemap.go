package scraper

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxSitemapDepth bounds sitemap-index recursion.
const maxSitemapDepth = 3

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// sitemapCandidates are tried in order when the source URL is not itself an
// XML file.
var sitemapCandidates = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/wp-sitemap.xml",
	"/sitemap-index.xml",
}

var locPattern = regexp.MustCompile(`<loc>(.*?)</loc>`)

// SitemapClient fetches and parses sitemaps.
type SitemapClient struct {
	httpClient *http.Client
}

// NewSitemapClient builds a client. Certificate verification is disabled:
// target sites regularly serve expired or self-signed certificates.
func NewSitemapClient(timeout time.Duration) *SitemapClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SitemapClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

type sitemapDoc struct {
	XMLName  xml.Name
	URLs     []sitemapLoc `xml:"url"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// ExtractURLs resolves the source URL to a sitemap and returns the page URLs
// it lists, deduplicated. A source without any discoverable sitemap yields
// just the source URL itself so the base page still gets scraped.
func (c *SitemapClient) ExtractURLs(ctx context.Context, sourceURL string) ([]string, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return nil, fmt.Errorf("scraper: empty sitemap url")
	}

	sitemapURL := sourceURL
	if !strings.HasSuffix(sourceURL, ".xml") {
		base := strings.TrimRight(sourceURL, "/")
		found := ""
		for _, path := range sitemapCandidates {
			if c.probe(ctx, base+path) {
				found = base + path
				break
			}
		}
		if found == "" {
			return []string{base}, nil
		}
		sitemapURL = found
	}

	seen := make(map[string]struct{})
	var urls []string
	if err := c.walk(ctx, sitemapURL, 0, seen, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (c *SitemapClient) walk(ctx context.Context, sitemapURL string, depth int, seen map[string]struct{}, urls *[]string) error {
	if depth > maxSitemapDepth {
		return nil
	}
	body, err := c.get(ctx, sitemapURL)
	if err != nil {
		if depth > 0 {
			// A broken sub-sitemap should not sink the whole crawl.
			return nil
		}
		return err
	}

	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		for _, m := range locPattern.FindAllSubmatch(body, -1) {
			appendURL(strings.TrimSpace(string(m[1])), seen, urls)
		}
		return nil
	}

	for _, u := range doc.URLs {
		appendURL(strings.TrimSpace(u.Loc), seen, urls)
	}
	for _, sub := range doc.Sitemaps {
		loc := strings.TrimSpace(sub.Loc)
		if loc == "" {
			continue
		}
		if err := c.walk(ctx, loc, depth+1, seen, urls); err != nil {
			return err
		}
	}
	return nil
}

func appendURL(u string, seen map[string]struct{}, urls *[]string) {
	if u == "" {
		return
	}
	if _, dup := seen[u]; dup {
		return
	}
	seen[u] = struct{}{}
	*urls = append(*urls, u)
}

// probe reports whether a candidate sitemap path answers 200.
func (c *SitemapClient) probe(ctx context.Context, u string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (c *SitemapClient) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper: fetch %s: status %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
