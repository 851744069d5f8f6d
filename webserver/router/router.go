package router

import (
	"github.com/gin-gonic/gin"
	"github.com/warden-bot/warden/verify"
	"github.com/warden-bot/warden/webserver/controller"
)

// Run serves the read-only moderation API.
func Run(address string, verifier *verify.Service) error {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	api := engine.Group("/api")
	{
		api.GET("verification/pending", controller.GetPending(verifier))
	}
	engine.GET("/health", controller.GetHealth)
	return engine.Run(address)
}
