package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/folio-works/portfolio-api/internal/api/http"
	"github.com/folio-works/portfolio-api/internal/api/http/middleware"
	"github.com/folio-works/portfolio-api/internal/media"
	"github.com/folio-works/portfolio-api/internal/metrics"
	projecthttp "github.com/folio-works/portfolio-api/internal/projects/http"
	"github.com/folio-works/portfolio-api/internal/projects/repository"
	"github.com/folio-works/portfolio-api/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Production     bool
	CORSOrigins    []string
	MaxUploadBytes int64
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Stores         *repository.Resolver
	Media          *media.Store
	// LocalMedia is set when uploads are kept in memory and must be served by this router.
	LocalMedia *media.MemoryBackend
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(logger),
		middleware.Recovery(logger, !dep.Production),
		cors.New(corsConfig(dep.CORSOrigins)),
		middleware.ErrorHandler(logger),
	)

	httpapi.NewDescriptor(dep.ServiceName, dep.Version, dep.LocalMedia == nil).RegisterRoutes(r)
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Stores).RegisterRoutes(r)
	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}
	if dep.LocalMedia != nil {
		r.GET(LocalMediaPath+"/*key", gin.WrapH(http.StripPrefix(LocalMediaPath, dep.LocalMedia)))
	}

	var uploads service.MediaStore
	if dep.Media != nil {
		uploads = dep.Media
	}
	projects := service.NewProjectService(dep.Stores, uploads, logger.Named("projects"))
	projecthttp.New(projects, dep.MaxUploadBytes).Register(r.Group("/api/projects"))
	// The legacy routes never carry files but share the service so a delete there releases the image.
	projecthttp.NewLegacy(projects).Register(r.Group("/projects"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Deprecation", "Link"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
