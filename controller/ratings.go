package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ratemypic/database"
	"ratemypic/middlewares"
	"ratemypic/models"
)

// SubmitRating handles POST /rate. The insert and the aggregate recompute
// run in one store transaction; the unique (photo_id, user_id) constraint
// turns a second rating by the same user into a clean failure instead of a
// race.
func (ctrl *Controller) SubmitRating(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	var req models.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := ctrl.store.SubmitRating(c.Request.Context(), req.PhotoID, userID, req.RatingValue)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You already rated this photo."})
		case errors.Is(err, database.ErrPhotoNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		default:
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteRating handles POST /rate/delete. Only the caller's own rating is
// touched: the delete filters on the session user id, no rating id is
// accepted. A delete with nothing to remove still succeeds and the photo's
// aggregates are recomputed either way.
func (ctrl *Controller) DeleteRating(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	var req models.DeleteRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := ctrl.store.DeleteRating(c.Request.Context(), req.PhotoID, userID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
