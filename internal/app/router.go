package app

import (
	"heritage_backend/docs"
	"heritage_backend/internal/config"
	"heritage_backend/internal/middleware"
	"heritage_backend/internal/model"
	"heritage_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(middleware.ActivityMiddleware(repos.user))

	// 公共路由（无需登录）
	{
		api.GET("/health", c.health.HealthCheck)
		api.GET("/quiz/generate", middleware.TryAuthMiddleware(cfg), c.exam.GeneratePractice)
		api.GET("/quiz/leaderboard", c.exam.Leaderboard)
	}

	// 需要登录的考试路由
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/qualification/generate", c.exam.GenerateQualification)
		authorized.POST("/qualification/submit", c.exam.SubmitQualification)
		authorized.POST("/quiz/submit", c.exam.SubmitPractice)
	}

	// 题库管理（仅管理员）
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/questions", c.question.CreateQuestion)
		admin.GET("/questions", c.question.ListQuestions)
		admin.GET("/questions/:id", c.question.GetQuestion)
		admin.PUT("/questions/:id", c.question.UpdateQuestion)
		admin.DELETE("/questions/:id", c.question.DeleteQuestion)
	}
}
