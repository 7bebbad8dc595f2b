package controller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ratemypic/database"
	"ratemypic/models"
)

// ListAllPhotos handles GET /admin/photos: every photo, hidden included.
func (ctrl *Controller) ListAllPhotos(c *gin.Context) {
	photos, err := ctrl.store.ListAllPhotos(c.Request.Context())
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos, "total": len(photos)})
}

// UpdatePhoto handles PATCH /admin/photos. With an explicit status the photo
// is set to it; without one the current status is flipped public <-> hidden.
func (ctrl *Controller) UpdatePhoto(c *gin.Context) {
	var req models.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	status := req.Status
	if status == "" {
		photo, err := ctrl.store.GetPhoto(c.Request.Context(), req.PhotoID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Photo not found"})
				return
			}
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update photo"})
			return
		}
		status = models.StatusHidden
		if photo.Status == models.StatusHidden {
			status = models.StatusPublic
		}
	}

	if err := ctrl.store.UpdatePhotoStatus(c.Request.Context(), req.PhotoID, status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Photo not found"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeletePhoto handles DELETE /admin/photos. The backing blob is removed
// best-effort from whichever backend holds it; a storage failure never
// blocks deleting the row. Ratings cascade with the row.
func (ctrl *Controller) DeletePhoto(c *gin.Context) {
	var req models.DeletePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing photo_id"})
		return
	}

	photo, err := ctrl.store.GetPhoto(c.Request.Context(), req.PhotoID)
	if err == nil {
		fileName := photo.PhotoURL
		if idx := strings.LastIndex(fileName, "/"); idx >= 0 {
			fileName = fileName[idx+1:]
		}
		switch photo.Storage {
		case models.StorageSupabase:
			if err := ctrl.blob.Delete(c.Request.Context(), fileName); err != nil {
				log.Println("blob delete:", err)
			}
		case models.StorageImageKit:
			if ctrl.cdn != nil {
				if err := ctrl.cdn.Delete(c.Request.Context(), fileName); err != nil {
					log.Println("cdn delete:", err)
				}
			}
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete photo"})
		return
	}

	if err := ctrl.store.DeletePhoto(c.Request.Context(), req.PhotoID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Dashboard handles GET /admin/dashboard.
func (ctrl *Controller) Dashboard(c *gin.Context) {
	stats, err := ctrl.store.Dashboard(c.Request.Context())
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// StorageDiagnostics handles GET /admin/storage: which backends are
// configured, plus a live ImageKit probe when it is.
func (ctrl *Controller) StorageDiagnostics(c *gin.Context) {
	diag := gin.H{
		"supabase_configured": ctrl.blob != nil,
		"imagekit_configured": ctrl.cdn != nil,
	}

	if ctrl.cdn != nil {
		count, err := ctrl.cdn.Ping(c.Request.Context())
		if err != nil {
			diag["imagekit_test"] = gin.H{"success": false, "error": err.Error()}
		} else {
			diag["imagekit_test"] = gin.H{
				"success":     true,
				"message":     "ImageKit connection successful!",
				"files_count": count,
			}
		}
	}

	c.JSON(http.StatusOK, diag)
}
