package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"jobsite-api/services"

	"github.com/gin-gonic/gin"
)

// Data is the shared data context, set once at startup.
var Data *services.DataContext

// Init wires the controllers to the data context.
func Init(d *services.DataContext) {
	Data = d
}

// respondError maps the service error taxonomy onto HTTP statuses so the UI
// can tell "not found" from "write failed" from "storage full".
func respondError(c *gin.Context, err error) {
	var (
		notFound *services.NotFoundError
		validat  *services.ValidationError
		storeErr *services.StoreError
		quota    *services.QuotaExceededError
		partial  *services.PartialFailureError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": notFound.Error()})
	case errors.As(err, &validat):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validat.Error()})
	case errors.As(err, &quota):
		c.JSON(http.StatusInsufficientStorage, gin.H{"success": false, "error": "Storage full: " + quota.Error()})
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": partial.Error()})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Write failed: " + storeErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return id, true
}
