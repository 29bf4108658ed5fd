package router

import (
	"net/http"

	"modlink/internal/handlers"
	"modlink/internal/middleware"
	"modlink/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the routes need. Limiter, Scheduler and Gatherer
// are optional.
type Deps struct {
	Engine    *services.Engine
	Scheduler handlers.Scheduler
	Limiter   *middleware.RateLimiter
	Gatherer  prometheus.Gatherer
	IsAdmin   func(caller string) bool
}

// RegisterRoutes mounts the API on r. The session middleware must already be
// installed.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	contentHandler := handlers.NewContentHandler(deps.Engine)
	voteHandler := handlers.NewVoteHandler(deps.Engine, deps.Scheduler)
	guidelineHandler := handlers.NewGuidelineHandler(deps.Engine)
	userHandler := handlers.NewUserHandler(deps.Engine)
	adminHandler := handlers.NewAdminHandler(deps.Engine)
	authHandler := handlers.NewAuthHandler()

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/session", authHandler.Login)
	r.DELETE("/session", authHandler.Logout)

	api := r.Group("/api")
	api.Use(middleware.LoadCaller())

	writes := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		writes = append(writes, deps.Limiter.Middleware())
	}

	// Public reads
	api.GET("/contents/:id", contentHandler.Get)
	api.GET("/contents/:id/html", contentHandler.Render)
	api.GET("/contents/:id/reports", contentHandler.Reports)
	api.GET("/guidelines", guidelineHandler.List)
	api.GET("/users/:id", userHandler.Profile)
	api.GET("/users/:id/reputation-logs", userHandler.ReputationLogs)

	authorized := api.Group("/")
	authorized.Use(middleware.CallerRequired())
	authorized.Use(writes...)
	{
		authorized.POST("/contents", contentHandler.Submit)
		authorized.POST("/contents/:id/reports", voteHandler.Report)
		authorized.POST("/contents/:id/votes", voteHandler.Vote)
		authorized.POST("/guidelines", guidelineHandler.Propose)
		authorized.POST("/guidelines/:ref/votes", guidelineHandler.Vote)
	}

	isAdmin := deps.IsAdmin
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	admin := api.Group("/")
	admin.Use(middleware.AdminRequired(isAdmin))
	admin.Use(writes...)
	{
		admin.POST("/contents/:id/moderate", adminHandler.Moderate)
		admin.POST("/admin/users/:id/reputation", adminHandler.UpdateReputation)
	}
}
