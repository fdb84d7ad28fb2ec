package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/moin143264/UrlChatbotBackend/config"
	"github.com/moin143264/UrlChatbotBackend/internal/chunker"
	"github.com/moin143264/UrlChatbotBackend/internal/extractor"
	"github.com/moin143264/UrlChatbotBackend/internal/indexer"
	"github.com/moin143264/UrlChatbotBackend/internal/progress"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
	"github.com/moin143264/UrlChatbotBackend/tools/scraper"
)

// crawlCMD scrapes and indexes a single site from the command line, without
// the HTTP server. Useful for seeding an index or re-crawling after a schema
// change.
func crawlCMD() *cobra.Command {
	var cfgPath string
	var crawl = &cobra.Command{
		Use:   "crawl [site-url]",
		Short: "Crawl one site's sitemap and index its pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			dsn, err := cfg.Storage.Postgres.DSN()
			if err != nil {
				return err
			}

			ctx := context.Background()
			st, err := store.New(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.DB.Close()

			analyzer := extractor.NewAnalyzer(extractor.DefaultVocabulary(), extractor.DefaultWeights())
			idx := indexer.New(chunker.New(analyzer), st, log.New(log.Writer(), "[INDEX] ", log.LstdFlags))

			crawler := scraper.NewCrawler(
				scraper.NewSitemapClient(cfg.Scraper.Timeout),
				scraper.ChromeFetcher{Timeout: cfg.Scraper.Timeout, MaxChars: cfg.Scraper.MaxChars},
				idx,
				st,
				progress.Noop{},
				log.New(log.Writer(), "[SCRAPER] ", log.LstdFlags),
				cfg.Scraper.MaxConcurrent,
			)

			sourceID, err := st.UpsertSitemapSource(ctx, args[0])
			if err != nil {
				return err
			}
			indexed, err := crawler.Crawl(ctx, sourceID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d pages from %s\n", indexed, args[0])
			return nil
		},
	}
	crawl.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return crawl
}
