package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"order-pipeline/internal/aws"
	"order-pipeline/internal/orders"
)

// writeError maps domain errors onto response codes. Dependency failures are
// logged with the raw error but surfaced with a sanitized message; credential
// failures get a distinguishing hint.
func (a *API) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "msg": err.Error()})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, orders.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "illegal_transition", "msg": err.Error()})
	default:
		a.Log.Error("dependency failure", "path", c.FullPath(), "error", err)
		detail := "a storage dependency is unavailable"
		if hint := aws.DependencyHint(err); hint != "" {
			detail = hint
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dependency_failure", "detail": detail})
	}
}
