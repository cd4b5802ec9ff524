package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/ats-api/internal/config"
	"alfredoptarigan/ats-api/internal/metrics"
	"alfredoptarigan/ats-api/internal/middleware"
	"alfredoptarigan/ats-api/internal/repositories"
	"alfredoptarigan/ats-api/internal/routes"
	"alfredoptarigan/ats-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Optional analysis history
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	var analysisRepo repositories.AnalysisRepository
	if db != nil {
		analysisRepo = repositories.NewAnalysisRepository(db)
		log.Println("✅ Analysis history enabled")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		log.Println("✅ Metrics enabled on /metrics")
	}

	// Initialize services
	ctx := context.Background()
	llmService, err := services.NewLLMService(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM client: %v", err)
	}
	log.Printf("✅ LLM client initialized (%s, %s)\n", cfg.LLM.Provider, cfg.LLM.Model)

	analyzer := services.NewAnalyzerService(services.NewPDFParserService(), llmService, m)
	log.Println("✅ Analyzer service initialized")

	rateLimiter := middleware.NewLimiterManager(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	if rateLimiter != nil {
		log.Printf("✅ Rate limiting at %d requests/min per IP\n", cfg.RateLimit.RequestsPerMinute)
	}

	app := routes.SetupRouter(routes.Dependencies{
		Analyzer:     analyzer,
		AnalysisRepo: analysisRepo,
		Metrics:      m,
		RateLimiter:  rateLimiter,
		MaxFileSize:  cfg.Storage.MaxFileSize,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		rateLimiter.Close()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
