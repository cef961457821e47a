package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

type statusCoder interface {
	StatusCode() int
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Errors carrying a status code keep it, ErrNotFound becomes 404 and anything
// else is a 500 that also carries the error text.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		err := last.Err

		var coded statusCoder
		switch {
		case errors.As(err, &coded):
			c.JSON(coded.StatusCode(), gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("request failed",
				zap.String("request_id", GetRequestID(c.Request.Context())),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal server error",
				"message": err.Error(),
			})
		}
	}
}

// Recovery turns a panic into a 500. The stack is only included when
// exposeStack is set, i.e. outside production.
func Recovery(logger *zap.Logger, exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			stack := string(debug.Stack())
			logger.Error("panic recovered",
				zap.String("request_id", GetRequestID(c.Request.Context())),
				zap.Any("panic", rec),
				zap.String("stack", stack),
			)

			body := gin.H{
				"error":   "internal server error",
				"message": fmt.Sprint(rec),
			}
			if exposeStack {
				body["stack"] = stack
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()
		c.Next()
	}
}
