package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/theodore333/vayne-study-sub002/internal/handlers"
)

type RouterConfig struct {
	CORSOrigins   []string
	StudyHandler  *handlers.StudyHandler
	HealthHandler *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/dashboard", cfg.StudyHandler.Dashboard)
		api.POST("/predictions", cfg.StudyHandler.Predictions)
		api.POST("/predictions/:subjectId", cfg.StudyHandler.SubjectPrediction)
		api.POST("/reviews/due", cfg.StudyHandler.DueReviews)
		api.POST("/plan/today", cfg.StudyHandler.TodayPlan)
		api.POST("/plan/reconcile", cfg.StudyHandler.ReconcilePlan)
	}

	return router
}
