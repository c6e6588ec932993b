package dashboard

import (
	"go-dvms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	dash := r.Group("/dashboard")
	dash.Use(middleware.AuthMiddleware(rdb))
	{
		dash.GET("/summary", handler.Summary)
	}
}
