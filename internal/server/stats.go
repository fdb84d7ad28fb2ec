package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

// StatsStore reports aggregate index state.
type StatsStore interface {
	IndexStats(ctx context.Context) (store.Stats, error)
}

type StatsHandler struct {
	Store StatsStore
}

func (h *StatsHandler) Register(g *echo.Group) {
	g.GET("/stats", h.stats)
}

func (h *StatsHandler) stats(c echo.Context) error {
	stats, err := h.Store.IndexStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := StatsResponse{
		TotalPages:   stats.TotalPages,
		ScrapedPages: stats.ScrapedPages,
		FailedPages:  stats.FailedPages,
		TotalChunks:  stats.TotalChunks,
		Sources:      stats.Sources,
		Users:        stats.Users,
		ChatMessages: stats.ChatMessages,
	}
	if stats.LastScrape.Valid {
		t := stats.LastScrape.Time
		resp.LastScrape = &t
	}
	return c.JSON(http.StatusOK, resp)
}
