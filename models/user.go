package models

import "time"

const RoleAdmin = "admin"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminRole grants administrative capability when Role is exactly "admin".
// Rows are provisioned out-of-band; this service only reads them.
type AdminRole struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// DashboardStats backs the admin dashboard page.
type DashboardStats struct {
	TotalPhotos    int64   `json:"total_photos"`
	PublicPhotos   int64   `json:"public_photos"`
	HiddenPhotos   int64   `json:"hidden_photos"`
	TotalRatings   int64   `json:"total_ratings"`
	OverallAverage float64 `json:"overall_average"`
}
