package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/zombar/bookminer/analysis"
	"github.com/zombar/bookminer/api"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("bookminer service initializing", "version", "1.0.0")

	// Local development convenience; a missing .env file is not an error
	_ = godotenv.Load()

	// Incoming W3C trace context is carried into request spans
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// Default values
	defaultPort := getEnv("PORT", "8080")
	defaultTopDomains := getEnv("TOP_DOMAINS", "10")
	defaultTopKeywords := getEnv("TOP_KEYWORDS", "50")
	defaultMaxUploadMB := getEnv("MAX_UPLOAD_MB", "50")

	topDomains, err := strconv.Atoi(defaultTopDomains)
	if err != nil || topDomains < 1 {
		logger.Warn("invalid TOP_DOMAINS value, using default",
			"provided", defaultTopDomains,
			"default", 10,
		)
		topDomains = 10
	}

	topKeywords, err := strconv.Atoi(defaultTopKeywords)
	if err != nil || topKeywords < 1 {
		logger.Warn("invalid TOP_KEYWORDS value, using default",
			"provided", defaultTopKeywords,
			"default", 50,
		)
		topKeywords = 50
	}

	maxUploadMB, err := strconv.Atoi(defaultMaxUploadMB)
	if err != nil || maxUploadMB < 1 {
		logger.Warn("invalid MAX_UPLOAD_MB value, using default",
			"provided", defaultMaxUploadMB,
			"default", 50,
		)
		maxUploadMB = 50
	}

	// Command-line flags (override environment variables)
	port := flag.String("port", defaultPort, "Server port")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	config := api.Config{
		Addr: ":" + *port,
		AnalyzerConfig: analysis.Config{
			TopDomains:  topDomains,
			TopKeywords: topKeywords,
		},
		CORSEnabled:    !*disableCORS,
		MaxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}

	server := api.NewServer(config)

	// Start server in a goroutine
	go func() {
		logger.Info("bookminer service starting",
			"port", *port,
			"top_domains", topDomains,
			"top_keywords", topKeywords,
			"max_upload_mb", maxUploadMB,
			"cors_enabled", !*disableCORS,
		)

		if err := server.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
