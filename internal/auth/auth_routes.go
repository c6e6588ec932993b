package auth

import (
	"go-dvms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	r.POST("/register", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Register)
	r.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(rdb))
	{
		authed.POST("/logout", handler.Logout)
		authed.GET("/me", handler.Me)
	}
}
