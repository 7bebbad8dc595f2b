package controller

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ratemypic/models"
	"ratemypic/utils"
)

// UploadPhoto handles POST /admin/upload (multipart). Storage selection:
// when ImageKit is configured the upload goes there first and falls back to
// Supabase Storage on any failure; otherwise Supabase is used directly. The
// photo row records which backend actually served the file.
func (ctrl *Controller) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, src); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(),
		uuid.NewString()[:8], filepath.Ext(file.Filename))

	var imageURL, storageTag string
	if ctrl.cdn != nil {
		imageURL, err = ctrl.cdn.Upload(c.Request.Context(), fileName, contentType,
			bytes.NewReader(buffer.Bytes()), int64(buffer.Len()))
		if err == nil {
			storageTag = ctrl.cdn.Name()
		} else {
			log.Println("imagekit upload failed, falling back to supabase:", err)
		}
	}
	if imageURL == "" {
		imageURL, err = ctrl.blob.Upload(c.Request.Context(), fileName, contentType,
			bytes.NewReader(buffer.Bytes()), int64(buffer.Len()))
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
			return
		}
		storageTag = ctrl.blob.Name()
	}

	photo := &models.Photo{
		PhotoURL:    imageURL,
		Title:       title,
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Status:      models.StatusPublic,
		Storage:     storageTag,
	}
	if err := ctrl.store.CreatePhoto(c.Request.Context(), photo); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create photo record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": imageURL,
		"storage":  storageTag,
	})
}

// UploadPhotoURL handles POST /admin/upload-url: registers a photo served
// from an external URL, no bytes pass through us. The URL only has to pass
// the image heuristic.
func (ctrl *Controller) UploadPhotoURL(c *gin.Context) {
	var req models.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if !utils.IsImageURL(req.PhotoURL) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "URL does not appear to be an image. Please use a direct image link.",
		})
		return
	}

	photo := &models.Photo{
		PhotoURL:    req.PhotoURL,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.StatusPublic,
		Storage:     models.StorageURL,
	}
	if err := ctrl.store.CreatePhoto(c.Request.Context(), photo); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create photo record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": req.PhotoURL,
		"storage":  models.StorageURL,
	})
}
