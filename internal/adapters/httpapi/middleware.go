package httpapi

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.trai.ch/stackhub/internal/core/ports"
)

// RequestLogger logs one line per request. Client and server errors are logged as warnings.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		line := fmt.Sprintf("%s %s status=%d duration=%s client_ip=%s bytes=%d",
			c.Request.Method, path, status, time.Since(start), c.ClientIP(), c.Writer.Size())
		if status >= 400 {
			log.Warn(line)
			return
		}
		log.Info(line)
	}
}
