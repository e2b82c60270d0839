package controllers

import (
	"net/http"

	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// GetProjects returns all projects.
func GetProjects(c *gin.Context) {
	respondOK(c, Data.Projects())
}

// GetProject returns a single project by id.
func GetProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	project, err := Data.ProjectByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

// CreateProject creates a new project.
func CreateProject(c *gin.Context) {
	var req models.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	project, err := Data.AddProject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, project)
}

// UpdateProject applies a partial update to a project.
func UpdateProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	project, err := Data.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}
