package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

func (h *LegacyHandler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *LegacyHandler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LegacyHandler) create(c *gin.Context) {
	in, err := readJSON(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *LegacyHandler) update(c *gin.Context) {
	in, err := readJSON(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LegacyHandler) delete(c *gin.Context) {
	if _, err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// readJSON decodes the body as a JSON object. An empty body is an empty input.
func readJSON(c *gin.Context) (domain.Input, error) {
	if c.Request.ContentLength == 0 {
		return domain.Input{}, nil
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, domain.NewValidationError("", "invalid JSON body")
	}
	return domain.InputFromJSON(body), nil
}
