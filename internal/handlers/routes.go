package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/shelfmirror/inventory-service/internal/middleware"
)

// Deps bundles the constructed handlers for route registration.
type Deps struct {
	Sync      *SyncHandler
	Items     *ItemsHandler
	Tags      *TagsHandler
	Reconcile *ReconcileHandler
}

// RegisterRoutes wires the HTTP surface: public health and metrics, swagger
// docs, and the API-key protected internal API.
func RegisterRoutes(r *gin.Engine, deps Deps, apiKey string, rateLimit middleware.RateLimiterConfig) {
	r.GET("/health", HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := r.Group("/internal")
	internal.Use(middleware.RateLimit(rateLimit))
	internal.Use(middleware.InternalAuth(apiKey))
	{
		internal.POST("/sync", deps.Sync.TriggerSync)
		internal.GET("/sync/latest", deps.Sync.GetLatestSync)

		internal.GET("/items", deps.Items.ListItems)
		internal.GET("/items/:itemId", deps.Items.GetItem)

		internal.GET("/tags", deps.Tags.ListTags)

		internal.GET("/reconcile/shipments", deps.Reconcile.ListShipments)
		internal.GET("/reconcile/shipments/download", deps.Reconcile.DownloadShipment)

		internal.POST("/reconcile/sessions", deps.Reconcile.CreateSession)
		internal.GET("/reconcile/sessions/:sessionId", deps.Reconcile.GetSession)
		internal.POST("/reconcile/sessions/:sessionId/refresh", deps.Reconcile.RefreshSession)
		internal.POST("/reconcile/sessions/:sessionId/tags", deps.Reconcile.AddSessionTag)
		internal.POST("/reconcile/sessions/:sessionId/apply", deps.Reconcile.ApplySession)
		internal.DELETE("/reconcile/sessions/:sessionId", deps.Reconcile.DeleteSession)
	}
}
