package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookminer_analyses_total",
		Help: "Analysis requests by outcome.",
	}, []string{"status"})

	bookmarksExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookminer_bookmarks_extracted_total",
		Help: "Bookmark records extracted across all uploads.",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookminer_analysis_duration_seconds",
		Help:    "End-to-end pipeline duration for completed analyses.",
		Buckets: prometheus.DefBuckets,
	})
)
