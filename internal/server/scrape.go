package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moin143264/UrlChatbotBackend/internal/progress"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

// crawlTimeout bounds a whole background crawl.
const crawlTimeout = 2 * time.Hour

// SourceAdmin is the sitemap-source slice of the store.
type SourceAdmin interface {
	UpsertSitemapSource(ctx context.Context, url string) (int64, error)
	GetSitemapSource(ctx context.Context, id int64) (store.SitemapSource, error)
	ListSitemapSources(ctx context.Context) ([]store.SitemapSource, error)
}

// CrawlRunner starts a full crawl of one source.
type CrawlRunner interface {
	Crawl(ctx context.Context, sourceID int64, sourceURL string) (int, error)
}

// ProgressReader exposes live crawl state.
type ProgressReader interface {
	Get(ctx context.Context, sourceID int64) (progress.Snapshot, bool, error)
}

type ScrapeHandler struct {
	Sources  SourceAdmin
	Crawler  CrawlRunner
	Progress ProgressReader
	Logger   *log.Logger
}

func (h *ScrapeHandler) Register(g *echo.Group) {
	g.POST("/scrape-sitemap", h.scrape)
	g.GET("/scraping-status/:id", h.status)
	g.GET("/sources", h.sources)
}

func (h *ScrapeHandler) scrape(c echo.Context) error {
	var req ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid http(s) url is required")
	}

	sourceID, err := h.Sources.UpsertSitemapSource(c.Request().Context(), req.URL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	crawlsTotal.Inc()

	// The crawl outlives the request.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), crawlTimeout)
		defer cancel()
		if _, err := h.Crawler.Crawl(ctx, sourceID, req.URL); err != nil {
			h.Logger.Printf("[SCRAPE] crawl source %d: %v", sourceID, err)
		}
	}()

	return c.JSON(http.StatusAccepted, ScrapeResponse{
		SourceID: sourceID,
		Status:   store.SourceStatusCrawling,
	})
}

func (h *ScrapeHandler) status(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid source id")
	}

	src, err := h.Sources.GetSitemapSource(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown source")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := ScrapingStatusResponse{
		SourceID:   src.ID,
		URL:        src.URL,
		Status:     src.Status,
		PagesFound: src.PagesFound,
		LastError:  src.LastError,
	}
	// Live counters come from Redis while the crawl runs; the database row
	// is authoritative after it finishes.
	if snap, ok, err := h.Progress.Get(c.Request().Context(), id); err == nil && ok {
		resp.TotalURLs = snap.Total
		resp.Scraped = snap.Scraped
		resp.Failed = snap.Failed
		resp.Percent = snap.Percent
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ScrapeHandler) sources(c echo.Context) error {
	list, err := h.Sources.ListSitemapSources(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]SourceResponse, 0, len(list))
	for _, s := range list {
		resp := SourceResponse{
			ID:         s.ID,
			URL:        s.URL,
			Status:     s.Status,
			PagesFound: s.PagesFound,
			LastError:  s.LastError,
			CreatedAt:  s.CreatedAt,
		}
		if s.CrawledAt.Valid {
			t := s.CrawledAt.Time
			resp.CrawledAt = &t
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}
