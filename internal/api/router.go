package api

import (
	"net/http"
	"path"

	"gutenlens/internal/auth"
	"gutenlens/internal/config"
	"gutenlens/internal/db"
	"gutenlens/internal/library"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func usersExist() bool {
	if db.DB == nil {
		return false
	}
	exists, err := db.HasUsers()
	return err == nil && exists
}

func SetupRouter(cfg *config.Config, rdb *redis.Client, pool *AgentPool, store *library.Store, queue MetricsSource) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/gutenlens" or any custom path, always starts with '/'

	// Load HTML templates
	r.LoadHTMLFiles("./frontend/index.html", "./frontend/login.html", "./frontend/setup.html")

	// Serve frontend static assets
	r.Static(path.Join(subpath, "static"), "./static")

	// Pretty HTML routes with dynamic subpath injection and user existence check
	r.GET(subpath, func(c *gin.Context) {
		if !usersExist() {
			c.Redirect(http.StatusFound, path.Join(subpath, "setup"))
			return
		}
		c.HTML(http.StatusOK, "index.html", gin.H{"subpath": subpath})
	})
	r.GET(path.Join(subpath, "login"), func(c *gin.Context) {
		if !usersExist() {
			c.Redirect(http.StatusFound, path.Join(subpath, "setup"))
			return
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"subpath": subpath})
	})
	r.GET(path.Join(subpath, "setup"), func(c *gin.Context) {
		c.HTML(http.StatusOK, "setup.html", gin.H{"subpath": subpath})
	})
	// Redirect /subpath/ to /subpath (no duplicate panic)
	r.GET(subpath+"/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, subpath)
	})

	// API routes
	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))
		if queue != nil {
			group.GET("/metrics", metricsHandler(queue))
		}

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())
		group.GET("/users/online", OnlineUserCountHandler(rdb))

		// Book analysis
		group.POST("/analyze", auth.AuthMiddleware(cfg, rdb, false), AnalyzeHandler(pool, store))
		group.POST("/query", auth.AuthMiddleware(cfg, rdb, false), QueryHandler(pool))

		// Persisted analyses
		group.GET("/analyses", auth.AuthMiddleware(cfg, rdb, false), ListAnalysesHandler(store))
		group.GET("/analyses/:id", auth.AuthMiddleware(cfg, rdb, false), GetAnalysisHandler(store))
		group.DELETE("/analyses/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteAnalysisHandler(store))

		// Websocket query loop
		group.GET("/ws/query", auth.AuthMiddleware(cfg, rdb, false), WSQueryHandler(pool))
	}
	return r
}
