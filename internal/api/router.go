// Package api assembles the HTTP surface of the service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/api/handlers"
	"github.com/Marga-Ghale/softdesk-backend/internal/api/middleware"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Services    *service.Services
	Logger      *logrus.Logger
	CORSOrigins []string
	// Health maps a component name to its pinger. A nil entry is reported
	// as disabled.
	Health map[string]Pinger
}

// NewRouter wires middleware and every route under /api.
func NewRouter(deps RouterDeps) *gin.Engine {
	h := handlers.NewHandlers(deps.Services)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", healthHandler(deps.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/signup", h.Auth.Signup)
		api.POST("/login", h.Auth.Login)
		api.POST("/login/refresh", h.Auth.Refresh)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Services.Auth, deps.Logger))
		{
			protected.POST("/logout", h.Auth.Logout)
			protected.GET("/users/me", h.User.GetCurrentUser)

			projects := protected.Group("/projects")
			{
				projects.GET("", h.Project.List)
				projects.POST("", h.Project.Create)
				projects.GET("/:project_id", h.Project.Get)
				projects.PATCH("/:project_id", h.Project.Update)
				projects.DELETE("/:project_id", h.Project.Delete)

				projects.GET("/:project_id/users", h.Contributor.List)
				projects.POST("/:project_id/users", h.Contributor.Add)
				projects.DELETE("/:project_id/users/:user_id", h.Contributor.Remove)

				projects.GET("/:project_id/issues", h.Issue.List)
				projects.POST("/:project_id/issues", h.Issue.Create)
				projects.GET("/:project_id/issues/:issue_id", h.Issue.Get)
				projects.PATCH("/:project_id/issues/:issue_id", h.Issue.Update)
				projects.DELETE("/:project_id/issues/:issue_id", h.Issue.Delete)

				comments := projects.Group("/:project_id/issues/:issue_id/comments")
				{
					comments.GET("", h.Comment.List)
					comments.POST("", h.Comment.Create)
					comments.GET("/:comment_id", h.Comment.Get)
					comments.PATCH("/:comment_id", h.Comment.Update)
					comments.DELETE("/:comment_id", h.Comment.Delete)
				}
			}
		}
	}

	return r
}

func healthHandler(components map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		}
		for name, p := range components {
			switch {
			case p == nil:
				body[name] = "disabled"
			case p.Ping(ctx) != nil:
				body[name] = "unavailable"
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
			default:
				body[name] = "connected"
			}
		}
		c.JSON(status, body)
	}
}
