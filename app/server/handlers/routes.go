package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"personal-site-api/app/server/constants"
	"personal-site-api/app/server/middlewares"
)

func (a *App) RegisterHandlers(e *echo.Echo) {
	requireAdmin := middlewares.AdminAuth(a.auth)
	optionalAdmin := middlewares.OptionalAdminAuth(a.auth)

	e.GET("/", a.Root)
	e.GET("/healthz", a.HealthCheck)

	v1 := e.Group("/api/v1")

	v1.POST("/login/token", a.AuthLogin)

	// 博客：读取时可选认证（决定是否能看到草稿），写入必须认证
	blog := v1.Group("/blog")
	blog.GET("", a.BlogList, optionalAdmin)
	blog.GET("/:id", a.BlogGet, optionalAdmin)
	blog.POST("", a.BlogCreate, requireAdmin)
	blog.PATCH("/:id", a.BlogUpdate, requireAdmin)
	blog.DELETE("/:id", a.BlogDelete, requireAdmin)

	// 项目：读取公开
	projects := v1.Group("/projects")
	projects.GET("", a.ProjectList)
	projects.GET("/:id", a.ProjectGet)
	projects.POST("", a.ProjectCreate, requireAdmin)
	projects.PATCH("/:id", a.ProjectUpdate, requireAdmin)
	projects.DELETE("/:id", a.ProjectDelete, requireAdmin)

	v1.POST("/upload/image", a.UploadImage, requireAdmin, middleware.BodyLimit(constants.UploadBodyLimit))
}
