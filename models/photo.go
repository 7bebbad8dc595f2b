package models

import "time"

// Photo statuses
const (
	StatusPublic = "public"
	StatusHidden = "hidden"
)

// Storage backends a photo can live on
const (
	StorageSupabase = "supabase"
	StorageImageKit = "imagekit"
	StorageURL      = "url"
)

// Photo is a rateable image record. The rating_sum / total_ratings /
// rating_average columns are denormalized aggregates over the photo's live
// rating rows and are recomputed on every rating mutation.
type Photo struct {
	ID            string    `json:"id"`
	PhotoURL      string    `json:"photo_url"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Status        string    `json:"status"`
	Storage       string    `json:"storage"`
	RatingSum     int64     `json:"rating_sum"`
	TotalRatings  int64     `json:"total_ratings"`
	RatingAverage float64   `json:"rating_average"`
	CreatedAt     time.Time `json:"created_at"`
}

// Rating is one user's 1-10 score for one photo. At most one rating exists
// per (photo_id, user_id); changing a score is delete + recreate.
type Rating struct {
	ID          string    `json:"id"`
	PhotoID     string    `json:"photo_id"`
	UserID      string    `json:"user_id"`
	RatingValue int       `json:"rating_value"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubmitRatingRequest struct {
	PhotoID     string `json:"photo_id" validate:"required"`
	RatingValue int    `json:"rating_value" validate:"required,gte=1,lte=10"`
}

type DeleteRatingRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
}

type UploadURLRequest struct {
	PhotoURL    string `json:"photo_url" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UpdatePhotoRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
	Status  string `json:"status" validate:"omitempty,oneof=public hidden"`
}

type DeletePhotoRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
}
