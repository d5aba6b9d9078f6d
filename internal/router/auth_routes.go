package router

import (
	"github.com/gin-gonic/gin"

	authhandler "github.com/toughbox/pocketpic/internal/modules/auth/handler"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc, h *authhandler.Handler) {
	api.POST("/login", authLimiter, h.Login)
	api.POST("/register", authLimiter, h.Register)
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me)
}
