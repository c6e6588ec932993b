package dv

import (
	"go-dvms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	dvs := r.Group("/dvs")
	dvs.Use(middleware.AuthMiddleware(rdb))
	{
		dvs.GET("", handler.List)
		dvs.POST("", middleware.Idempotency(rdb), handler.Create)
		dvs.GET("/:id", handler.Get)
		dvs.PUT("/:id", handler.Update)
		dvs.PATCH("/:id", handler.Update)
		dvs.DELETE("/:id", handler.Delete)
		dvs.POST("/:id/approve", handler.Approve)
		dvs.POST("/:id/disapprove", handler.Disapprove)
	}
}
