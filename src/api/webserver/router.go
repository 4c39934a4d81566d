package webserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/deo-labs/deoai/src/api/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, factory AgentFactory) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	store := NewStore(factory)
	chatH := NewChat(store, []byte(cfg.JWTSecret))
	limiter := NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	v1 := r.Group("/v1")
	{
		v1.POST("/session", chatH.CreateSession)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(limiter))
		secured.POST("/session/key", chatH.SetKey)
		secured.POST("/chat", chatH.Chat)
	}
}
