package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode switches gin to release mode in production. GIN_MODE, when set,
// has already been applied by gin itself and is left alone otherwise.
func SetGinMode(production bool) {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
}
