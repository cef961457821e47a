package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Errors are left on the context for the error middleware to render.

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	in, file, err := h.readForm(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), in, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	in, file, err := h.readForm(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	if _, err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
