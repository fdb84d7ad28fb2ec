// Package server exposes the HTTP API: auth, sitemap crawling, chat, search
// and stats endpoints on an echo router.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/moin143264/UrlChatbotBackend/config"
	"github.com/moin143264/UrlChatbotBackend/internal/answer"
	"github.com/moin143264/UrlChatbotBackend/internal/auth"
	"github.com/moin143264/UrlChatbotBackend/internal/chunker"
	"github.com/moin143264/UrlChatbotBackend/internal/extractor"
	"github.com/moin143264/UrlChatbotBackend/internal/indexer"
	"github.com/moin143264/UrlChatbotBackend/internal/progress"
	"github.com/moin143264/UrlChatbotBackend/internal/search"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
	"github.com/moin143264/UrlChatbotBackend/provider"
	"github.com/moin143264/UrlChatbotBackend/tools/scraper"
)

// Deps carries the wired handlers for route registration.
type Deps struct {
	Logger *log.Logger
	Secret []byte
	Auth   *AuthHandler
	Chat   *ChatHandler
	Scrape *ScrapeHandler
	Search *SearchHandler
	Stats  *StatsHandler
}

// NewRouter assembles the echo instance: middleware, error handling and all
// API routes.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		d.Logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	d.Auth.Register(api.Group("/auth"))

	// chat works anonymously; history requires a signed-in user
	chat := api.Group("")
	chat.Use(auth.Optional(d.Secret))
	chat.POST("/chat", d.Chat.chat)
	history := api.Group("")
	history.Use(auth.Middleware(d.Secret))
	history.GET("/chat/history", d.Chat.history)

	d.Scrape.Register(api)
	d.Search.Register(api)
	d.Stats.Register(api)
	return e
}

// Run wires the whole application from config and serves HTTP until the
// process exits.
func Run(cfgPath, addr string) error {
	cfg := config.LoadConfig(cfgPath)
	if err := cfg.Server.Validate(); err != nil {
		return err
	}
	logger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx := context.Background()
	st, err := store.New(ctx, dsn)
	if err != nil {
		return err
	}

	analyzer := extractor.NewAnalyzer(extractor.DefaultVocabulary(), extractor.DefaultWeights())
	idx := indexer.New(chunker.New(analyzer), st, log.New(log.Writer(), "[INDEX] ", log.LstdFlags))
	engine := search.New(st, log.New(log.Writer(), "[SEARCH] ", log.LstdFlags), cfg.Search.DefaultLimit)

	llm, err := provider.NewProvider(provider.Gemini, provider.Options{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return err
	}
	pipeline := answer.NewPipeline(engine, st, llm, analyzer, log.New(log.Writer(), "[ANSWER] ", log.LstdFlags), cfg.Search.ChatLimit)

	// Redis is optional: without it crawls still run, status polling just
	// reads the database.
	var reporter scraper.Reporter = progress.Noop{}
	var reader ProgressReader = progress.Noop{}
	if cfg.Storage.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
		tracker := progress.NewTracker(rdb)
		reporter = tracker
		reader = tracker
	}

	crawler := scraper.NewCrawler(
		scraper.NewSitemapClient(cfg.Scraper.Timeout),
		scraper.ChromeFetcher{Timeout: cfg.Scraper.Timeout, MaxChars: cfg.Scraper.MaxChars},
		idx,
		st,
		reporter,
		log.New(log.Writer(), "[SCRAPER] ", log.LstdFlags),
		cfg.Scraper.MaxConcurrent,
	)

	secret := []byte(cfg.Server.JWTSecret)
	e := NewRouter(Deps{
		Logger: logger,
		Secret: secret,
		Auth:   &AuthHandler{Store: st, Secret: secret},
		Chat:   &ChatHandler{Pipeline: pipeline, History: st, Logger: logger},
		Scrape: &ScrapeHandler{Sources: st, Crawler: crawler, Progress: reader, Logger: logger},
		Search: &SearchHandler{Engine: engine},
		Stats:  &StatsHandler{Store: st},
	})

	if addr == "" {
		addr = cfg.Server.Address
	}
	return e.Start(addr)
}
