package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/service"
)

// writeServiceError maps business-rule sentinels onto the HTTP taxonomy;
// everything else is an unexpected failure and surfaces as a generic 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrWorkshopFull),
		errors.Is(err, service.ErrWorkshopClosed),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("[api] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// callerID pulls the authenticated user id set by the JWT middleware.
func callerID(c *gin.Context) (string, bool) {
	v, _ := c.Get("sub")
	id, _ := v.(string)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return "", false
	}
	return id, true
}
