package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetWeeklyHours reports hours worked per day for a user's current week.
// Query params: user_id (required), date (optional RFC3339 or 2006-01-02,
// defaults to now).
func GetWeeklyHours(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id is required"})
		return
	}

	ref := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid date"})
			return
		}
		ref = parsed
	}

	summary, err := Data.WeeklyHours(userID, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

// GetTaskStatusCounts returns task counts per workflow column. Pass
// ?project_id= to scope to one project, omit for all projects.
func GetTaskStatusCounts(c *gin.Context) {
	projectID := 0
	if raw := c.Query("project_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project_id"})
			return
		}
		projectID = parsed
	}
	respondOK(c, Data.TaskStatusCounts(projectID))
}

// GetJobCosting compares approved estimate buckets against actual spend for
// a project.
func GetJobCosting(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := Data.JobCosting(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// GetBudgetUsed reports how much of a project's budget has been consumed.
func GetBudgetUsed(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	usage, err := Data.BudgetUsed(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, usage)
}
