package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dashboard"
	"github.com/justsurfingit/applied-jobs-tracker/internal/services"
	"github.com/justsurfingit/applied-jobs-tracker/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Sessions     *session.Manager
	Boards       *dashboard.Registry
	LLM          *services.LLMService
	Store        Pinger
	Logger       *zap.Logger
	AllowOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), AccessLog(deps.Logger))

	corsCfg := cors.DefaultConfig()
	if allowsAny(deps.AllowOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", SessionHeader)
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessions := NewSessionHandler(deps.Sessions, deps.Boards)
	apps := NewApplicationHandler(deps.Boards, deps.LLM)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck(deps.Store))
		api.POST("/session", sessions.SignIn)

		authed := api.Group("", RequireSession(deps.Sessions))
		authed.GET("/session", sessions.Current)
		authed.DELETE("/session", sessions.SignOut)

		authed.GET("/applications", apps.List)
		authed.POST("/applications", apps.Create)
		authed.POST("/applications/refresh", apps.Refresh)
		authed.POST("/applications/sort", apps.Sort)
		authed.DELETE("/applications/sort", apps.ClearSort)
		authed.POST("/applications/selection", apps.Select)
		authed.POST("/applications/extract", apps.Extract)
		authed.PUT("/applications/:id", apps.Update)
		authed.DELETE("/applications/:id", apps.Delete)
		authed.GET("/applications/:id/link", apps.Link)
		authed.GET("/applications/:id/edit", apps.OpenEdit)
		authed.PATCH("/applications/:id/edit", apps.ChangeField)

		authed.GET("/notifications", apps.Notifications)
	}
	return r
}

func allowsAny(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
