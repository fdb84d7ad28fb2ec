package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxContentChars     = 20000
)

// PageFetcher turns a URL into a scraped page record.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (store.Page, error)
}

// ChromeFetcher renders pages in headless Chrome so JavaScript-driven sites
// still yield their content, then runs readability over the result.
type ChromeFetcher struct {
	Timeout  time.Duration
	MaxChars int
}

func (f ChromeFetcher) Fetch(ctx context.Context, pageURL string) (store.Page, error) {
	if strings.TrimSpace(pageURL) == "" {
		return store.Page{}, errors.New("scraper: invalid url")
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	maxChars := f.MaxChars
	if maxChars <= 0 {
		maxChars = maxContentChars
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rawHTML, err := fetchHTML(ctx, pageURL)
	if err != nil {
		return store.Page{}, fmt.Errorf("scraper: render %s: %w", pageURL, err)
	}
	return pageFromHTML(pageURL, rawHTML, maxChars)
}

func fetchHTML(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.UserAgent(userAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var rendered string
	err := chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	return rendered, err
}

// pageFromHTML extracts the stored page fields from rendered HTML. Metadata
// and headings come from the DOM; the body text comes from readability.
func pageFromHTML(pageURL, rawHTML string, maxChars int) (store.Page, error) {
	page := store.Page{URL: pageURL}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err == nil {
		meta := extractMetadata(doc)
		page.Title = meta.title
		page.MetaDescription = meta.description
		page.Keywords = meta.keywords
		page.ImageURL = meta.image
		page.Headings = strings.Join(meta.headings, "\n")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parseURL(pageURL))
	if err != nil {
		return store.Page{}, fmt.Errorf("scraper: extract %s: %w", pageURL, err)
	}
	content := strings.TrimSpace(article.TextContent)
	if len(content) > maxChars {
		content = content[:maxChars]
	}
	page.Content = content
	if page.Title == "" {
		page.Title = strings.TrimSpace(article.Title)
	}
	if page.ImageURL == "" {
		page.ImageURL = article.Image
	}
	return page, nil
}

type pageMetadata struct {
	title       string
	description string
	keywords    string
	image       string
	headings    []string
}

func extractMetadata(doc *html.Node) pageMetadata {
	var meta pageMetadata
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.title == "" {
					meta.title = strings.TrimSpace(nodeText(n))
				}
			case "meta":
				name := attr(n, "name")
				switch {
				case name == "description" && meta.description == "":
					meta.description = strings.TrimSpace(attr(n, "content"))
				case name == "keywords" && meta.keywords == "":
					meta.keywords = strings.TrimSpace(attr(n, "content"))
				case attr(n, "property") == "og:image" && meta.image == "":
					meta.image = strings.TrimSpace(attr(n, "content"))
				}
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					meta.headings = append(meta.headings, strings.ToUpper(n.Data)+": "+text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return meta
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
