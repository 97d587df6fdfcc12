package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) storageHealth(c *gin.Context) {
	ctx := c.Request.Context()

	deps := gin.H{}
	healthy := true

	if err := a.Orders.Health(ctx); err != nil {
		a.Log.Error("record store health check failed", "error", err)
		deps["dynamodb"] = "unavailable"
		healthy = false
	} else {
		deps["dynamodb"] = "ok"
	}

	if err := a.Documents.Health(ctx); err != nil {
		a.Log.Error("object store health check failed", "error", err)
		deps["s3"] = "unavailable"
		healthy = false
	} else {
		deps["s3"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"healthy":      healthy,
		"dependencies": deps,
	})
}
