package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ratemypic/database"
	"ratemypic/middlewares"
)

const (
	homeLimit        = 50
	leaderboardLimit = 20
)

// ListPhotos handles GET /photos: the newest public photos, with the
// caller's own ratings attached when a session is present.
func (ctrl *Controller) ListPhotos(c *gin.Context) {
	photos, err := ctrl.store.ListPublicPhotos(c.Request.Context(), homeLimit)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photos"})
		return
	}

	myRatings := map[string]int{}
	if userID := c.GetString(middlewares.ContextUserID); userID != "" {
		myRatings, err = ctrl.store.UserRatings(c.Request.Context(), userID)
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photos"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"photos":     photos,
		"total":      len(photos),
		"my_ratings": myRatings,
	})
}

// TopPhotos handles GET /photos/top: rated public photos by average, best
// first.
func (ctrl *Controller) TopPhotos(c *gin.Context) {
	photos, err := ctrl.store.ListTopPhotos(c.Request.Context(), leaderboardLimit)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos, "total": len(photos)})
}

// TrendingPhotos handles GET /photos/trending: public photos by rating
// count.
func (ctrl *Controller) TrendingPhotos(c *gin.Context) {
	photos, err := ctrl.store.ListTrendingPhotos(c.Request.Context(), leaderboardLimit)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos, "total": len(photos)})
}

// RandomPhoto handles GET /photos/random.
func (ctrl *Controller) RandomPhoto(c *gin.Context) {
	photo, err := ctrl.store.RandomPublicPhoto(c.Request.Context())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No photos available"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": photo})
}

// NextPhoto handles GET /rate/next: the newest public photo the caller has
// not rated yet.
func (ctrl *Controller) NextPhoto(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	photo, err := ctrl.store.NextUnratedPhoto(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "You've rated all photos!"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": photo})
}
