package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moin143264/UrlChatbotBackend/internal/search"
)

// Searcher is the retrieval engine used by the search endpoint.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []search.Result
}

type SearchHandler struct {
	Engine Searcher
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.GET("/search", h.search)
}

func (h *SearchHandler) search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 50")
		}
		limit = n
	}
	searchesTotal.Inc()
	results := h.Engine.Search(c.Request().Context(), query, limit)
	return c.JSON(http.StatusOK, results)
}
