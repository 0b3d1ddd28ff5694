package app

import (
	"studypath_backend/internal/config"
	"studypath_backend/internal/middleware"
	"studypath_backend/internal/model"

	"studypath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "studypath_backend/docs"
)

// registerRoutes 注册全部路由，/api/admin 下的路由要求教师或管理员角色
func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		// 公开路由
		api.POST("/register", c.auth.Register)
		api.POST("/login", c.auth.Login)
		api.GET("/health", c.health.HealthCheck)

		// 需要登录的路由
		auth := api.Group("")
		auth.Use(middleware.AuthMiddleware(cfg))
		{
			auth.GET("/programs", c.content.ListPrograms)
			auth.GET("/programs/:id", c.content.GetProgram)
			auth.GET("/programs/:id/content", c.content.ListContent)

			auth.POST("/enrollments", c.enrollment.Enroll)
			auth.GET("/enrollments/user/:userId", c.enrollment.ListByUser)
			auth.GET("/enrollments/program/:programId", c.enrollment.ListByProgram)
			auth.GET("/enrollments/check/:programId", c.enrollment.Check)
			auth.PATCH("/enrollments/program/:programId/content/:contentId", c.enrollment.UpdateContentCompletion)
			auth.DELETE("/enrollments/my/:programId", c.enrollment.Unenroll)

			auth.GET("/quizzes", c.quiz.ListQuizzes)
			auth.GET("/quizzes/:quizId/check", c.quiz.CheckEligibility)
			auth.POST("/quizzes/:quizId/submit", c.quiz.Submit)

			// 教学管理路由
			admin := auth.Group("/admin")
			admin.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
			{
				admin.POST("/programs", c.content.CreateProgram)
				admin.DELETE("/programs/:id", c.content.DeleteProgram)
				admin.POST("/content", c.content.CreateContent)
				admin.PUT("/content/:id", c.content.UpdateContent)
				admin.DELETE("/content/:id", c.content.DeleteContent)
				admin.PUT("/programs/:id/content/reorder", c.content.ReorderContent)

				admin.POST("/quizzes", c.quiz.CreateQuiz)
				admin.DELETE("/quizzes/:quizId", c.quiz.DeleteQuiz)
				admin.POST("/quizzes/:quizId/questions", c.quiz.CreateQuestion)

				admin.GET("/programs/:id/stats", c.stats.ProgramStats)
				admin.GET("/programs/:id/stats/ranking", c.stats.Ranking)
			}

			// 强制完成仅限管理员
			adminOnly := auth.Group("")
			adminOnly.Use(middleware.RoleMiddleware(model.Admin))
			{
				adminOnly.PUT("/enrollments/:id/complete", c.enrollment.ForceComplete)
			}
		}
	}
}
