package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ratemypic/models"
)

// Store wraps the pgx pool with the queries the controllers need. All
// coordination relies on the database's own constraints and transactions;
// there is no in-process shared state.
type Store struct {
	pool *pgxpool.Pool
}

func (s *Store) Close() {
	s.pool.Close()
}

const photoColumns = `id, photo_url, title, COALESCE(description, ''), COALESCE(category, ''),
	status, storage, rating_sum, total_ratings, rating_average, created_at`

func scanPhoto(row pgx.Row) (models.Photo, error) {
	var p models.Photo
	err := row.Scan(&p.ID, &p.PhotoURL, &p.Title, &p.Description, &p.Category,
		&p.Status, &p.Storage, &p.RatingSum, &p.TotalRatings, &p.RatingAverage, &p.CreatedAt)
	return p, err
}

func (s *Store) collectPhotos(ctx context.Context, query string, args ...any) ([]models.Photo, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// recomputeStatsSQL rewrites a photo's denormalized aggregates from its live
// rating rows. Authoritative and idempotent: running it twice yields the same
// result.
const recomputeStatsSQL = `
	UPDATE photos SET
		rating_sum = agg.sum,
		total_ratings = agg.cnt,
		rating_average = CASE WHEN agg.cnt = 0 THEN 0 ELSE agg.sum::double precision / agg.cnt END
	FROM (
		SELECT COALESCE(SUM(rating_value), 0) AS sum, COUNT(*) AS cnt
		FROM ratings WHERE photo_id = $1
	) agg
	WHERE id = $1`

// SubmitRating inserts a rating and recomputes the photo's aggregates in one
// transaction. The UNIQUE (photo_id, user_id) constraint closes the
// check-then-insert race: a second rating by the same user fails with
// ErrDuplicateRating no matter how the requests interleave.
func (s *Store) SubmitRating(ctx context.Context, photoID, userID string, value int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rating tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ratings (photo_id, user_id, rating_value)
		VALUES ($1, $2, $3)
	`, photoID, userID, value)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return ErrDuplicateRating
		case pgForeignKeyViolation:
			return ErrPhotoNotFound
		}
		return fmt.Errorf("insert rating: %w", err)
	}

	if _, err := tx.Exec(ctx, recomputeStatsSQL, photoID); err != nil {
		return fmt.Errorf("recompute photo stats: %w", err)
	}
	return tx.Commit(ctx)
}

// DeleteRating removes the caller's own rating for a photo and recomputes the
// aggregates. Deleting a rating that does not exist is a successful no-op;
// the recompute still runs so the cached stats match the live rating set.
func (s *Store) DeleteRating(ctx context.Context, photoID, userID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rating tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM ratings WHERE photo_id = $1 AND user_id = $2
	`, photoID, userID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	if _, err := tx.Exec(ctx, recomputeStatsSQL, photoID); err != nil {
		return fmt.Errorf("recompute photo stats: %w", err)
	}
	return tx.Commit(ctx)
}

// UserRatings returns photo_id -> rating_value for everything the user rated.
func (s *Store) UserRatings(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT photo_id, rating_value FROM ratings WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[string]int)
	for rows.Next() {
		var photoID string
		var value int
		if err := rows.Scan(&photoID, &value); err != nil {
			return nil, err
		}
		ratings[photoID] = value
	}
	return ratings, rows.Err()
}

func (s *Store) CreatePhoto(ctx context.Context, p *models.Photo) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO photos (photo_url, title, description, category, status, storage)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		RETURNING id, created_at
	`, p.PhotoURL, p.Title, p.Description, p.Category, p.Status, p.Storage)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (s *Store) GetPhoto(ctx context.Context, id string) (models.Photo, error) {
	p, err := scanPhoto(s.pool.QueryRow(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Photo{}, ErrNotFound
	}
	return p, err
}

// ListPublicPhotos returns the newest public photos, up to limit.
func (s *Store) ListPublicPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	return s.collectPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE status = 'public'
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

// ListTopPhotos returns public photos with at least one rating ordered by
// average, up to limit.
func (s *Store) ListTopPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	return s.collectPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE status = 'public' AND total_ratings >= 1
		ORDER BY rating_average DESC
		LIMIT $1
	`, limit)
}

// ListTrendingPhotos returns public photos ordered by rating count, up to limit.
func (s *Store) ListTrendingPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	return s.collectPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE status = 'public'
		ORDER BY total_ratings DESC
		LIMIT $1
	`, limit)
}

// ListAllPhotos returns every photo, hidden ones included, for the admin view.
func (s *Store) ListAllPhotos(ctx context.Context) ([]models.Photo, error) {
	return s.collectPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos
		ORDER BY created_at DESC
	`)
}

func (s *Store) RandomPublicPhoto(ctx context.Context) (models.Photo, error) {
	p, err := scanPhoto(s.pool.QueryRow(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE status = 'public'
		ORDER BY random()
		LIMIT 1
	`))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Photo{}, ErrNotFound
	}
	return p, err
}

// NextUnratedPhoto returns the newest public photo the user has not rated yet.
func (s *Store) NextUnratedPhoto(ctx context.Context, userID string) (models.Photo, error) {
	p, err := scanPhoto(s.pool.QueryRow(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE status = 'public'
		AND id NOT IN (SELECT photo_id FROM ratings WHERE user_id = $1)
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Photo{}, ErrNotFound
	}
	return p, err
}

func (s *Store) UpdatePhotoStatus(ctx context.Context, id, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE photos SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePhoto removes the photo row; its ratings go with it via the
// ON DELETE CASCADE on ratings.photo_id.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	return err
}

// GetAdminRole returns the role string mapped to the user, or ErrNotFound
// when no admin_roles row exists.
func (s *Store) GetAdminRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.pool.QueryRow(ctx, `
		SELECT role FROM admin_roles WHERE user_id = $1
	`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return role, err
}

// UpsertUserByEmail creates the user on first login and returns the row
// either way.
func (s *Store) UpsertUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email) VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at
	`, email).Scan(&u.ID, &u.Email, &u.CreatedAt)
	return u, err
}

// SaveLoginCode stores the hashed one-time code for an email, replacing any
// previous pending code.
func (s *Store) SaveLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
			SET code_hash = EXCLUDED.code_hash,
			    expires_at = EXCLUDED.expires_at,
			    created_at = NOW()
	`, email, codeHash, expiresAt)
	return err
}

// ConsumeLoginCode deletes the pending code for an email and returns its
// hash. A code can be consumed once; expired codes return ErrCodeExpired.
func (s *Store) ConsumeLoginCode(ctx context.Context, email string) (string, error) {
	var codeHash string
	var expiresAt time.Time
	err := s.pool.QueryRow(ctx, `
		DELETE FROM login_codes WHERE email = $1
		RETURNING code_hash, expires_at
	`, email).Scan(&codeHash, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if time.Now().After(expiresAt) {
		return "", ErrCodeExpired
	}
	return codeHash, nil
}

// Dashboard aggregates the counts shown on the admin dashboard.
func (s *Store) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM photos),
			(SELECT COUNT(*) FROM photos WHERE status = 'public'),
			(SELECT COUNT(*) FROM photos WHERE status = 'hidden'),
			(SELECT COUNT(*) FROM ratings),
			(SELECT COALESCE(AVG(rating_value), 0) FROM ratings)
	`).Scan(&stats.TotalPhotos, &stats.PublicPhotos, &stats.HiddenPhotos,
		&stats.TotalRatings, &stats.OverallAverage)
	return stats, err
}
