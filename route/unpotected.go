package route

import (
	"ratemypic/config"
	"ratemypic/controller"
	mw "ratemypic/middlewares"

	"github.com/gin-gonic/gin"
)

func Unprotected(router *gin.Engine, cfg *config.Config, ctrl *controller.Controller) {
	router.POST("/auth/otp", ctrl.SendLoginCode)
	router.POST("/auth/verify", ctrl.VerifyLoginCode)
	router.POST("/logout", ctrl.Logout)

	// Public listings attach the caller's own ratings when a session is
	// present, so they parse the token without requiring one.
	public := router.Group("/")
	public.Use(mw.OptionalJWT(cfg.Auth))
	public.GET("/photos", ctrl.ListPhotos)
	public.GET("/photos/top", ctrl.TopPhotos)
	public.GET("/photos/trending", ctrl.TrendingPhotos)
	public.GET("/photos/random", ctrl.RandomPhoto)
}
