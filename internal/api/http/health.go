package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/folio-works/portfolio-api/internal/projects/repository"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	Store     string    `json:"store"`
}

type HealthHandler struct {
	serviceName string
	version     string
	stores      *repository.Resolver
}

func NewHealthHandler(serviceName, version string, stores *repository.Resolver) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		stores:      stores,
	}
}

// HealthCheck always answers 200: the service stays usable on fallback data.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	mode, err := h.stores.Probe(c.Request.Context())

	dbStatus := "disabled"
	if h.stores.HasPrimary() {
		dbStatus = "up"
		if err != nil {
			dbStatus = "down"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Store:     string(mode),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
