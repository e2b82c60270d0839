package controllers

import (
	"net/http"

	"jobsite-api/services"

	"github.com/gin-gonic/gin"
)

// UploadPhotos attaches one or more images to a project. Multipart form:
// repeated "images" files plus an optional "description" field shared by
// the whole batch.
func UploadPhotos(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "at least one image is required"})
		return
	}

	uploads := make([]services.PhotoUpload, 0, len(files))
	for _, fh := range files {
		data, err := readMultipartFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read " + fh.Filename})
			return
		}
		uploads = append(uploads, services.PhotoUpload{Data: data})
	}

	description := c.PostForm("description")
	photos, err := Data.AddPhoto(c.Request.Context(), projectID, uploads, description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, photos)
}

// GetPhoto serves a stored image blob by its key.
func GetPhoto(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	data, found, err := Data.GetPhoto(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "photo not found"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}
