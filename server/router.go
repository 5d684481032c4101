package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entitysearch/database"
	"entitysearch/enrichment"
	"entitysearch/server/handlers"
	"entitysearch/server/middleware"
	"entitysearch/server/services"
	"entitysearch/server/types"
)

// NewRouter собирает HTTP маршрутизатор со всеми обработчиками
func NewRouter(db *database.SearchDB, registry *enrichment.RegistryClient) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())

	searchService := services.NewSearchService(db, registry)
	connectionService := services.NewConnectionService(searchService.Finder())
	exportService := services.NewExportService()

	searchHandler := handlers.NewSearchHandler(searchService)
	connectionsHandler := handlers.NewConnectionsHandler(connectionService)
	exportHandler := handlers.NewExportHandler(exportService)

	api := router.Group("/api")
	{
		api.POST("/search", searchHandler.HandleSearch)
		api.POST("/connections", connectionsHandler.HandleFindConnections)
		api.POST("/connections/email", connectionsHandler.HandleFindByEmail)
		api.POST("/connections/phone", connectionsHandler.HandleFindByPhone)
		api.POST("/connections/inn", connectionsHandler.HandleFindByINN)
		api.POST("/export", exportHandler.HandleExport)
		api.GET("/health", func(c *gin.Context) {
			response := types.HealthResponse{Status: "ok", Database: "ok", Registry: "disabled"}
			if err := db.Ping(); err != nil {
				response.Status = "degraded"
				response.Database = "unavailable"
			}
			if registry != nil && registry.IsAvailable() {
				response.Registry = "ok"
			}
			status := http.StatusOK
			if response.Status != "ok" {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, response)
		})
	}

	return router
}
