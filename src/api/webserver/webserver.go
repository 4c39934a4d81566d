package webserver

import (
	"github.com/gin-gonic/gin"

	"github.com/deo-labs/deoai/src/api/config"
)

func New(cfg config.Config, factory AgentFactory) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, factory)
	return g
}
