package controllers

import (
	"net/http"

	"jobsite-api/services"

	"github.com/gin-gonic/gin"
)

// ExecuteAssistantCommand runs a structured assistant command. Entity
// references may carry an id or an exact display name; ambiguous names are
// rejected rather than guessed.
func ExecuteAssistantCommand(c *gin.Context) {
	var cmd services.AssistantCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	result, err := Data.ExecuteAssistantCommand(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// GetSnapshot returns the full in-memory dataset in one payload.
func GetSnapshot(c *gin.Context) {
	respondOK(c, Data.Snapshot())
}
