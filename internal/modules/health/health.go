package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ceanlio/kuzamo/internal/pkg/kv"
)

var processStart = time.Now()

func RegisterRoutes(rg *gin.RouterGroup, kvc *kv.Client) {
	rg.GET("/health", func(c *gin.Context) {
		redisOK := kvc.Raw().Ping(c.Request.Context()).Err() == nil

		status := "ok"
		code := http.StatusOK
		if !redisOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"redis":  redisOK,
			"uptime": int64(time.Since(processStart).Seconds()),
		})
	})
}
