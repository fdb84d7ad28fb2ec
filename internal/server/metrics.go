package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatQuestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatbot_questions_total",
		Help: "Questions answered through the chat endpoint.",
	})
	crawlsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatbot_crawls_total",
		Help: "Sitemap crawls started.",
	})
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatbot_searches_total",
		Help: "Direct search requests served.",
	})
)
