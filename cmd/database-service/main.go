package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mkovacs/citation-judge/internal/api"
	"github.com/mkovacs/citation-judge/internal/pkg/config"
	"github.com/mkovacs/citation-judge/internal/pkg/logger"
	"github.com/mkovacs/citation-judge/internal/pkg/redis"
	"github.com/mkovacs/citation-judge/internal/repository"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting citation accuracy run storage")

	// Initialize database (applies the schema migration)
	if err := repository.InitDB(cfg.Database.URL); err != nil {
		zap.L().Fatal("Failed to initialize database",
			zap.Error(err))
	}
	defer repository.Close()

	// Initialize Redis (optional)
	if err := redis.Init(cfg); err != nil {
		zap.L().Warn("Redis initialization failed, listing cache disabled",
			zap.Error(err))
	} else {
		defer redis.Close()
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	api.SetupRouter(r)

	// Print startup info
	fmt.Println("=" + makeString(60, "="))
	fmt.Println("🚀 Starting Citation Judge Run Storage")
	fmt.Println("=" + makeString(60, "="))
	fmt.Printf("📊 Service: Citation Accuracy Run Storage API\n")
	fmt.Printf("🌐 URL: http://%s\n", cfg.GetServiceAddr())
	fmt.Println("=" + makeString(60, "="))
	fmt.Println("Run storage started (schema migrated)")

	// Start HTTP server
	if err := r.Run(cfg.GetServiceAddr()); err != nil {
		zap.L().Fatal("Failed to start server",
			zap.Error(err))
	}
}

func makeString(n int, s string) string {
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}
