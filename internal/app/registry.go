package app

import (
	"os"

	"go-dvms/internal/auth"
	"go-dvms/internal/dashboard"
	"go-dvms/internal/dv"
	"go-dvms/internal/middleware"
	"go-dvms/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	if err := gormDB.AutoMigrate(&auth.User{}, &dv.DV{}); err != nil {
		return err
	}

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	dvRepo := dv.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)

	// --- Policy Core ---
	checker, err := policy.NewChecker()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rdb)
	dvService := dv.NewService(gormDB, dvRepo, checker, dv.Config{
		StrictTransitions: os.Getenv("DV_STRICT_TRANSITIONS") == "true",
	})
	dashboardService := dashboard.NewService(dashboardRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	dvHandler := dv.NewHandler(dvService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rdb)
		dv.RegisterRoutes(api, dvHandler, rdb)
		dashboard.RegisterRoutes(api, dashboardHandler, rdb)
	}

	return nil
}
