// Package router wires the HTTP routes and middleware chain.
package router

import (
	"net/http"
	"time"

	"pkgstats/internal/handler"
	"pkgstats/internal/middleware"
	"pkgstats/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the full middleware chain and all
// routes registered.
func NewRouter(serverHandler *handler.Server, configManager types.ConfigManager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(middleware.SecurityHeaders())
	startTime := time.Now()
	router.Use(func(c *gin.Context) {
		c.Set("serverStartTime", startTime)
		c.Next()
	})

	registerSystemRoutes(router, serverHandler)
	registerDownloadRoutes(router, serverHandler)
	registerAPIRoutes(router, serverHandler, configManager)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	return router
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server) {
	router.GET("/health", serverHandler.Health)
}

// registerDownloadRoutes registers the public download surface
func registerDownloadRoutes(router *gin.Engine, serverHandler *handler.Server) {
	packages := router.Group("/packages")
	{
		packages.GET("/:name/:num/download", serverHandler.DownloadVersion)
		packages.GET("/:name/:num/downloads", gzip.Gzip(gzip.DefaultCompression), serverHandler.VersionDownloads)
	}
}

// registerAPIRoutes registers the protected management API
func registerAPIRoutes(router *gin.Engine, serverHandler *handler.Server, configManager types.ConfigManager) {
	api := router.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	api.Use(middleware.Auth(configManager.GetAuthConfig()))

	packages := api.Group("/packages")
	{
		packages.POST("", serverHandler.CreatePackage)
		packages.GET("", serverHandler.ListPackages)
		packages.GET("/:name", serverHandler.GetPackage)
		packages.POST("/:name/versions", serverHandler.CreateVersion)
	}
}
