package controllers

import (
	"net/http"

	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// GetEstimates returns all estimates.
func GetEstimates(c *gin.Context) {
	respondOK(c, Data.Estimates())
}

// CreateEstimate creates a draft estimate with derived totals.
func CreateEstimate(c *gin.Context) {
	var req models.EstimateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	estimate, err := Data.AddEstimate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, estimate)
}

// UpdateEstimateStatus moves an estimate between Draft, Approved and Rejected.
func UpdateEstimateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	estimate, err := Data.UpdateEstimateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, estimate)
}
