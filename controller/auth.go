package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ratemypic/database"
	"ratemypic/models"
	"ratemypic/utils"
)

// SendLoginCode handles POST /auth/otp. It generates a 6-digit one-time
// code, stores only its hash and emails the code to the address.
func (ctrl *Controller) SendLoginCode(c *gin.Context) {
	var req models.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	code, err := utils.GenerateCode()
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create login code"})
		return
	}
	codeHash, err := utils.HashCode(code)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create login code"})
		return
	}

	expiresAt := time.Now().Add(ctrl.cfg.Auth.CodeTTL)
	if err := ctrl.store.SaveLoginCode(c.Request.Context(), req.Email, codeHash, expiresAt); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create login code"})
		return
	}

	body := fmt.Sprintf("Your RateMyPic login code is %s\nIt expires in %d minutes. If you didn't request it, ignore this message.",
		code, int(ctrl.cfg.Auth.CodeTTL.Minutes()))
	if err := ctrl.mailer(req.Email, "Your RateMyPic login code", body); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send login code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "mail has been send"})
}

// VerifyLoginCode handles POST /auth/verify. A correct, unexpired code is
// consumed, the user row is created on first login and a session cookie is
// set.
func (ctrl *Controller) VerifyLoginCode(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Body"})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and 6-digit code are required"})
		return
	}

	codeHash, err := ctrl.store.ConsumeLoginCode(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrCodeExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := utils.CompareCode(req.Code, codeHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		return
	}

	user, err := ctrl.store.UpsertUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	token, err := utils.SignedToken(ctrl.cfg.Auth.JWTSecret, user.ID, user.Email, ctrl.cfg.Auth.TokenTTL)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     ctrl.cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.cfg.Auth.TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "Login Successfull",
		"token":  token,
	})
}

func (ctrl *Controller) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     ctrl.cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Second),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.JSON(http.StatusOK, gin.H{"status": "Logout Successfull"})
}
