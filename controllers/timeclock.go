package controllers

import (
	"net/http"
	"strconv"

	"jobsite-api/middleware"
	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// ClockIn starts a shift on a project for the authenticated user.
func ClockIn(c *gin.Context) {
	var req struct {
		ProjectID int `json:"project_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	sess := middleware.SessionFrom(c)
	log, err := Data.ClockIn(c.Request.Context(), sess, req.ProjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, log)
}

// ClockOut ends the authenticated user's open shift. Clocking out while
// already off the clock is not an error, the response carries a null log.
func ClockOut(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	log, err := Data.ClockOut(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, log)
}

// SwitchJob closes the current shift and opens one on another project in a
// single call.
func SwitchJob(c *gin.Context) {
	var req struct {
		ProjectID int `json:"project_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	sess := middleware.SessionFrom(c)
	closed, opened, err := Data.SwitchJob(c.Request.Context(), sess, req.ProjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"closed": closed, "opened": opened})
}

// GetTimeLogs returns time logs, newest first, optionally filtered by
// ?user_id= and/or ?project_id=.
func GetTimeLogs(c *gin.Context) {
	logs := Data.TimeLogs()

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user_id"})
			return
		}
		logs = filterLogs(logs, func(l models.TimeLog) bool { return l.UserID == userID })
	}
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project_id"})
			return
		}
		logs = filterLogs(logs, func(l models.TimeLog) bool { return l.ProjectID == projectID })
	}

	respondOK(c, logs)
}

func filterLogs(logs []models.TimeLog, keep func(models.TimeLog) bool) []models.TimeLog {
	out := make([]models.TimeLog, 0, len(logs))
	for _, l := range logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// CreateManualTimeLog records a closed time entry by hand. Admin only.
func CreateManualTimeLog(c *gin.Context) {
	var req models.ManualTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	log, err := Data.AddManualTimeLog(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, log)
}

// UpdateTimeLog edits a closed time entry. Admin only.
func UpdateTimeLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.TimeLogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	log, err := Data.UpdateTimeLog(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, log)
}

// DeleteTimeLog removes a time entry. Admin only. Entries claimed by an
// invoice are refused.
func DeleteTimeLog(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := Data.DeleteTimeLog(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Time log deleted"})
}
