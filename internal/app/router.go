package app

import (
	"elearn_backend/docs"
	"elearn_backend/internal/config"
	"elearn_backend/internal/middleware"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/lessons", c.content.ListLessons)
	rg.GET("/lessons/:id", c.content.GetLesson)
	rg.GET("/activities/:id", c.content.GetActivityForStudent)

	rg.POST("/activities/:id/submit", c.submission.Submit)
	rg.GET("/responses", c.response.ListMyResponses)
	rg.GET("/responses/:id", c.response.GetResponseDetail)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/lessons", c.content.CreateLesson)
		teacher.PUT("/lessons/:id", c.content.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.content.DeleteLesson)

		teacher.POST("/activities", c.content.CreateActivity)
		teacher.GET("/activities/:id", c.content.GetActivity)
		teacher.PUT("/activities/:id", c.content.UpdateActivity)
		teacher.DELETE("/activities/:id", c.content.DeleteActivity)
		teacher.POST("/activities/:id/questions", c.content.AddQuestion)
		teacher.GET("/activities/:id/responses", c.response.ListActivityResponses)

		teacher.PUT("/questions/:id", c.content.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.content.DeleteQuestion)
	}
}
