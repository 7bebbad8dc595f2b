package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ratemypic/config"
	"ratemypic/controller"
	"ratemypic/database"
	"ratemypic/route"
	"ratemypic/storage"
	"ratemypic/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(err)
	}

	cfg, err := config.Read()
	if err != nil {
		log.Fatal("Failed to read configuration: ", err)
	}

	ctx := context.Background()

	store, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer store.Close()

	blob, err := storage.NewSupabase(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}

	var cdn controller.CDN
	if cfg.ImageKit.Configured() {
		cdn = storage.NewImageKit(cfg.ImageKit)
		log.Println("ImageKit configured, file uploads go there first")
	}

	mailer := func(to, subject, body string) error {
		return utils.SendMail(cfg.SMTP, to, subject, body)
	}

	ctrl := controller.New(cfg, store, blob, cdn, mailer)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:") ||
				strings.HasPrefix(origin, "https://")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	route.Protected(router, cfg, ctrl, store)
	route.Unprotected(router, cfg, ctrl)

	router.Run(":" + cfg.Server.Port)
}
