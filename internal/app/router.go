package app

import (
	"educonnect_backend/docs"
	"educonnect_backend/internal/config"
	"educonnect_backend/internal/middleware"
	"educonnect_backend/internal/model"

	"educonnect_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Employers verify credentials without an account.
		public.GET("/certificates/verify/:credentialId", c.certificate.Verify)

		// Course catalog is browsable by guests; unpublished courses stay
		// hidden unless the optional token carries a staff role.
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.List)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.Get)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/me", c.auth.UpdateProfile)

	// Enrollment and progress
	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.GET("/enrollments", c.course.MyEnrollments)
	rg.GET("/courses/:id/progress", c.course.Progress)
	rg.POST("/lessons/:lessonId/complete", c.course.CompleteLesson)

	// Assessments
	rg.GET("/assessments", c.assessment.List)
	rg.GET("/assessments/:id", c.assessment.Get)
	rg.POST("/assessments/:id/submit", c.assessment.Submit)
	rg.GET("/assessments/:id/results", c.assessment.Results)

	// Certificates
	rg.GET("/certificates", c.certificate.List)
	rg.POST("/certificates/generate", c.certificate.Generate)

	// Study materials
	rg.GET("/materials", c.material.List)
	rg.GET("/materials/:id", c.material.Get)
	rg.GET("/materials/:id/download", c.material.Download)

	// Live classes
	rg.GET("/live-classes", c.liveClass.List)
	rg.GET("/live-classes/:id", c.liveClass.Get)
	rg.POST("/live-classes/:id/join", c.liveClass.Join)
	rg.GET("/live-classes/:id/ws", c.liveClass.Signal)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// Course authoring
		teacher.POST("/courses", c.course.Create)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)
		teacher.GET("/teaching/courses", c.course.MyCourses)
		teacher.GET("/courses/:id/enrollments", c.course.CourseEnrollments)
		teacher.POST("/courses/:id/lessons", c.course.AddLesson)
		teacher.PUT("/lessons/:lessonId", c.course.UpdateLesson)
		teacher.DELETE("/lessons/:lessonId", c.course.DeleteLesson)

		// Assessment authoring
		teacher.POST("/assessments", c.assessment.Create)
		teacher.PUT("/assessments/:id", c.assessment.Update)
		teacher.DELETE("/assessments/:id", c.assessment.Delete)
		teacher.GET("/teaching/assessments/:id", c.assessment.GetFull)
		teacher.POST("/assessments/:id/questions", c.assessment.CreateQuestion)
		teacher.PUT("/questions/:questionId", c.assessment.UpdateQuestion)
		teacher.DELETE("/questions/:questionId", c.assessment.DeleteQuestion)
		teacher.GET("/teaching/assessments/:id/submissions", c.assessment.Submissions)

		// Materials and live classes
		teacher.POST("/materials", c.material.Upload)
		teacher.DELETE("/materials/:id", c.material.Delete)
		teacher.POST("/live-classes", c.liveClass.Schedule)
		teacher.POST("/live-classes/:id/start", c.liveClass.Start)
		teacher.POST("/live-classes/:id/end", c.liveClass.End)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/certificates/:id/revoke", c.certificate.Revoke)
	}
}
