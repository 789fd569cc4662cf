package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/bootstrap"
	"cvmatch-backend/internal/services/health"
	"cvmatch-backend/internal/shared/metrics"
	"cvmatch-backend/internal/shared/server/middleware"
	"cvmatch-backend/internal/shared/server/respond"
	"cvmatch-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	healthSvc := health.NewService(app.DB)
	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(app.Config.CORSAllowOrigin),
		middleware.Identity(),
	)

	app.ResumesHandler.RegisterRoutes(api)
	app.JobDescriptionsHandler.RegisterRoutes(api)
	app.AnalysesHandler.RegisterRoutes(api)
	app.CoverLettersHandler.RegisterRoutes(api)

	if app.Config.Env == "dev" || app.Config.Env == "local" {
		registerDevUploadRoute(r, app)
	}

	return r
}

// registerDevUploadRoute accepts direct PUTs against the pseudo presign URLs
// the local object store hands out, then feeds the orchestrator inline since
// no storage notification exists in dev. Registered outside the identity
// middleware: presigned PUTs carry no identity headers.
func registerDevUploadRoute(r *gin.Engine, app *bootstrap.App) {
	r.PUT("/api/v1/dev/uploads", func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "key is required", nil)
			return
		}
		contentType := c.ContentType()
		if _, err := app.Store.Put(c.Request.Context(), key, contentType, c.Request.Body); err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal", "store object", nil)
			return
		}
		// Extraction failures surface through the resume status, same as in
		// the event-driven path.
		if err := app.Orchestrator.HandleObjectCreated(c.Request.Context(), key); err != nil {
			telemetry.Warn("dev.upload.extraction_failed", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
		respond.OK(c, gin.H{"stored": key})
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
