package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Descriptor is the body of GET /, listing what the service offers.
type Descriptor struct {
	Name      string                       `json:"name"`
	Version   string                       `json:"version"`
	Endpoints map[string]map[string]string `json:"endpoints"`
	Features  []string                     `json:"features"`
}

func NewDescriptor(name, version string, remoteMedia bool) Descriptor {
	media := "Image uploads kept in memory"
	if remoteMedia {
		media = "Image uploads to S3-compatible object storage"
	}
	return Descriptor{
		Name:    name,
		Version: version,
		Endpoints: map[string]map[string]string{
			"projects": {
				"getAll": "GET /api/projects",
				"getOne": "GET /api/projects/:id",
				"create": "POST /api/projects",
				"update": "PUT /api/projects/:id",
				"delete": "DELETE /api/projects/:id",
			},
			"ops": {
				"health":  "GET /health",
				"metrics": "GET /metrics",
			},
		},
		Features: []string{
			"Full CRUD on portfolio projects",
			media,
			"Sample data served while the database is unavailable",
			"CORS enabled",
		},
	}
}

func (d Descriptor) RegisterRoutes(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, d)
	})
}
