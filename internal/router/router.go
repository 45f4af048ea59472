package router

import (
	"github.com/gin-gonic/gin"

	"veridoc/internal/config"
	"veridoc/internal/handler"
	"veridoc/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	extractH *handler.ExtractHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Cap in-memory multipart buffering; larger parts spill to temp files.
	r.MaxMultipartMemory = cfg.Image.MaxUploadMB * 1024 * 1024

	// Health check
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	v1.POST("/extract", extractH.Extract)
	v1.POST("/extract/batch", extractH.ExtractBatch)

	return r
}
