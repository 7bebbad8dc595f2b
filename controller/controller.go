package controller

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"ratemypic/config"
	"ratemypic/models"
	"ratemypic/storage"
)

// Store is the persistence surface the controllers use. *database.Store
// implements it; tests swap in a fake.
type Store interface {
	SubmitRating(ctx context.Context, photoID, userID string, value int) error
	DeleteRating(ctx context.Context, photoID, userID string) error
	UserRatings(ctx context.Context, userID string) (map[string]int, error)

	CreatePhoto(ctx context.Context, p *models.Photo) error
	GetPhoto(ctx context.Context, id string) (models.Photo, error)
	ListPublicPhotos(ctx context.Context, limit int) ([]models.Photo, error)
	ListTopPhotos(ctx context.Context, limit int) ([]models.Photo, error)
	ListTrendingPhotos(ctx context.Context, limit int) ([]models.Photo, error)
	ListAllPhotos(ctx context.Context) ([]models.Photo, error)
	RandomPublicPhoto(ctx context.Context) (models.Photo, error)
	NextUnratedPhoto(ctx context.Context, userID string) (models.Photo, error)
	UpdatePhotoStatus(ctx context.Context, id, status string) error
	DeletePhoto(ctx context.Context, id string) error

	UpsertUserByEmail(ctx context.Context, email string) (models.User, error)
	SaveLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	ConsumeLoginCode(ctx context.Context, email string) (string, error)

	Dashboard(ctx context.Context) (models.DashboardStats, error)
}

// CDN is the configured ImageKit backend, when there is one.
type CDN interface {
	storage.Uploader
	Ping(ctx context.Context) (int, error)
}

// Mailer sends the one-time login codes. Wired to utils.SendMail in main.
type Mailer func(to, subject, body string) error

type Controller struct {
	cfg      *config.Config
	store    Store
	blob     storage.Uploader
	cdn      CDN // nil when ImageKit is not configured
	mailer   Mailer
	validate *validator.Validate
}

func New(cfg *config.Config, store Store, blob storage.Uploader, cdn CDN, mailer Mailer) *Controller {
	return &Controller{
		cfg:      cfg,
		store:    store,
		blob:     blob,
		cdn:      cdn,
		mailer:   mailer,
		validate: validator.New(),
	}
}
