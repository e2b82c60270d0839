package controllers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreatePunchListItem adds an item to a project's punch list.
func CreatePunchListItem(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	item, err := Data.AddPunchListItem(c.Request.Context(), projectID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, item)
}

// TogglePunchListItem flips an item between complete and open.
func TogglePunchListItem(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	item, err := Data.TogglePunchListItem(c.Request.Context(), projectID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}

// UploadPunchListPhoto attaches a base photo plus its annotated copy to a
// punch list item. Multipart form fields: "base" and "annotated".
func UploadPunchListPhoto(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}

	base, err := formFileBytes(c, "base")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "base image is required"})
		return
	}
	annotated, err := formFileBytes(c, "annotated")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "annotated image is required"})
		return
	}

	item, err := Data.AddPunchListPhoto(c.Request.Context(), projectID, itemID, base, annotated)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, item)
}

// DeletePunchListPhoto removes the photo pair from a punch list item.
func DeletePunchListPhoto(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	if err := Data.DeletePunchListPhoto(c.Request.Context(), projectID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Photo deleted"})
}

// formFileBytes reads one uploaded file fully into memory.
func formFileBytes(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(fh)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
