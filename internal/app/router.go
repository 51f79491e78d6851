package app

import (
	"kpi_tracker_backend/docs"
	"kpi_tracker_backend/internal/config"
	"kpi_tracker_backend/internal/middleware"
	"kpi_tracker_backend/internal/util"
	"kpi_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerTeamRoutes(authGroup, c)
		a.registerTrackingRoutes(authGroup, c)
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

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.user.GetProfile)
	group.POST("/user/avatar/upload", c.user.UploadAvatar)
}

func (a *App) registerTeamRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/teams", c.team.CreateTeam)
	group.GET("/team", c.team.GetTeam)
	group.POST("/team/members", c.team.AddMember)
}

// registerTrackingRoutes 目标、KPI、打卡与仪表盘
func (a *App) registerTrackingRoutes(group *gin.RouterGroup, c *controllers) {
	goals := group.Group("/goals")
	{
		goals.GET("", c.goal.ListGoals)
		goals.POST("", c.goal.CreateGoal)
		goals.GET("/:id", c.goal.GetGoal)
		goals.PATCH("/:id", c.goal.UpdateGoal)
		goals.DELETE("/:id", c.goal.ArchiveGoal)
	}

	kpis := group.Group("/kpis")
	{
		kpis.GET("", c.kpi.ListKPIs)
		kpis.POST("", c.kpi.CreateKPI)
		kpis.GET("/:id", c.kpi.GetKPI)
		kpis.PATCH("/:id", c.kpi.UpdateKPI)
		kpis.DELETE("/:id", c.kpi.ArchiveKPI)
	}

	updates := group.Group("/updates")
	{
		updates.GET("", c.update.ListUpdates)
		updates.POST("", c.update.CreateUpdate)
		updates.PATCH("/:id", c.update.EditUpdate)
		updates.DELETE("/:id", c.update.DeleteUpdate)
	}

	group.GET("/dashboard", c.dashboard.GetDashboard)
}
