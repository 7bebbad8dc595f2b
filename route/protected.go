package route

import (
	"ratemypic/config"
	"ratemypic/controller"
	mw "ratemypic/middlewares"

	"github.com/gin-gonic/gin"
)

func Protected(router *gin.Engine, cfg *config.Config, ctrl *controller.Controller, roles mw.RoleStore) {

	protected := router.Group("/")

	protected.Use(mw.JWT(cfg.Auth))
	protected.GET("/rate/next", ctrl.NextPhoto)
	protected.POST("/rate", ctrl.SubmitRating)
	protected.POST("/rate/delete", ctrl.DeleteRating)

	// Admin routes re-check the role row on every request.
	admin := protected.Group("/admin")
	admin.Use(mw.RequireAdmin(roles))
	admin.GET("/photos", ctrl.ListAllPhotos)
	admin.PATCH("/photos", ctrl.UpdatePhoto)
	admin.DELETE("/photos", ctrl.DeletePhoto)
	admin.POST("/upload", ctrl.UploadPhoto)
	admin.POST("/upload-url", ctrl.UploadPhotoURL)
	admin.GET("/dashboard", ctrl.Dashboard)
	admin.GET("/storage", ctrl.StorageDiagnostics)
}
