package controllers

import (
	"net/http"
	"strconv"

	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// GetTasks returns tasks, optionally filtered by project via ?project_id=.
func GetTasks(c *gin.Context) {
	tasks := Data.Tasks()
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project_id"})
			return
		}
		filtered := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ProjectID == projectID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	respondOK(c, tasks)
}

// CreateTask creates a task on a project.
func CreateTask(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	task, err := Data.AddTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, task)
}

// UpdateTaskStatus moves a task between workflow columns.
func UpdateTaskStatus(c *gin.Context) {
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
	task, err := Data.UpdateTaskStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, task)
}
