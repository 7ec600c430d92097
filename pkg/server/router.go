package server

import (
	"github.com/gin-gonic/gin"

	"github.com/zen-systems/skillmaster/pkg/logger"
)

type RouterConfig struct {
	HealthHandler  *HealthHandler
	AnalyzeHandler *AnalyzeHandler
	Logger         *logger.Logger
	CORSOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
	}

	api := r.Group("/api")
	{
		if cfg.AnalyzeHandler != nil {
			api.POST("/analyze", cfg.AnalyzeHandler.Analyze)
		}
	}

	return r
}
