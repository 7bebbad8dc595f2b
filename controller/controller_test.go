package controller_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ratemypic/config"
	"ratemypic/controller"
	"ratemypic/database"
	"ratemypic/models"
	"ratemypic/route"
	"ratemypic/utils"
)

const testSecret = "test-secret"

// fakeStore is an in-memory Store/RoleStore whose rating mutations mirror
// the SQL transactions: insert or delete, then recompute the photo's
// aggregates from the live rating set.
type fakeStore struct {
	mu      sync.Mutex
	photos  map[string]*models.Photo
	ratings map[string]map[string]int // photo id -> user id -> value
	roles   map[string]string
	users   map[string]models.User // email -> user
	codes   map[string]loginCode
	nextID  int
}

type loginCode struct {
	hash      string
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		photos:  make(map[string]*models.Photo),
		ratings: make(map[string]map[string]int),
		roles:   make(map[string]string),
		users:   make(map[string]models.User),
		codes:   make(map[string]loginCode),
	}
}

func (f *fakeStore) addPhoto(status string) *models.Photo {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := &models.Photo{
		ID:        fmt.Sprintf("photo-%d", f.nextID),
		PhotoURL:  fmt.Sprintf("https://cdn.example.com/%d.jpg", f.nextID),
		Title:     fmt.Sprintf("Photo %d", f.nextID),
		Status:    status,
		Storage:   models.StorageSupabase,
		CreatedAt: time.Now().Add(time.Duration(f.nextID) * time.Second),
	}
	f.photos[p.ID] = p
	f.ratings[p.ID] = make(map[string]int)
	return p
}

func (f *fakeStore) recompute(photoID string) {
	p, ok := f.photos[photoID]
	if !ok {
		return
	}
	var sum int64
	for _, v := range f.ratings[photoID] {
		sum += int64(v)
	}
	cnt := int64(len(f.ratings[photoID]))
	p.RatingSum = sum
	p.TotalRatings = cnt
	if cnt == 0 {
		p.RatingAverage = 0
	} else {
		p.RatingAverage = float64(sum) / float64(cnt)
	}
}

func (f *fakeStore) SubmitRating(ctx context.Context, photoID, userID string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.photos[photoID]; !ok {
		return database.ErrPhotoNotFound
	}
	if _, ok := f.ratings[photoID][userID]; ok {
		return database.ErrDuplicateRating
	}
	f.ratings[photoID][userID] = value
	f.recompute(photoID)
	return nil
}

func (f *fakeStore) DeleteRating(ctx context.Context, photoID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ratings[photoID], userID)
	f.recompute(photoID)
	return nil
}

func (f *fakeStore) UserRatings(ctx context.Context, userID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int)
	for photoID, byUser := range f.ratings {
		if v, ok := byUser[userID]; ok {
			out[photoID] = v
		}
	}
	return out, nil
}

func (f *fakeStore) CreatePhoto(ctx context.Context, p *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = fmt.Sprintf("photo-%d", f.nextID)
	p.CreatedAt = time.Now()
	clone := *p
	f.photos[p.ID] = &clone
	f.ratings[p.ID] = make(map[string]int)
	return nil
}

func (f *fakeStore) GetPhoto(ctx context.Context, id string) (models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.photos[id]
	if !ok {
		return models.Photo{}, database.ErrNotFound
	}
	return *p, nil
}

func (f *fakeStore) listPhotos(filter func(*models.Photo) bool) []models.Photo {
	out := make([]models.Photo, 0)
	for _, p := range f.photos {
		if filter == nil || filter(p) {
			out = append(out, *p)
		}
	}
	return out
}

func (f *fakeStore) ListPublicPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listPhotos(func(p *models.Photo) bool { return p.Status == models.StatusPublic }), nil
}

func (f *fakeStore) ListTopPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listPhotos(func(p *models.Photo) bool {
		return p.Status == models.StatusPublic && p.TotalRatings >= 1
	}), nil
}

func (f *fakeStore) ListTrendingPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	return f.ListPublicPhotos(ctx, limit)
}

func (f *fakeStore) ListAllPhotos(ctx context.Context) ([]models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listPhotos(nil), nil
}

func (f *fakeStore) RandomPublicPhoto(ctx context.Context) (models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.photos {
		if p.Status == models.StatusPublic {
			return *p, nil
		}
	}
	return models.Photo{}, database.ErrNotFound
}

func (f *fakeStore) NextUnratedPhoto(ctx context.Context, userID string) (models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.photos {
		if p.Status != models.StatusPublic {
			continue
		}
		if _, rated := f.ratings[p.ID][userID]; !rated {
			return *p, nil
		}
	}
	return models.Photo{}, database.ErrNotFound
}

func (f *fakeStore) UpdatePhotoStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.photos[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeStore) DeletePhoto(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.photos, id)
	delete(f.ratings, id) // cascade
	return nil
}

func (f *fakeStore) UpsertUserByEmail(ctx context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	f.nextID++
	u := models.User{ID: fmt.Sprintf("user-%d", f.nextID), Email: email, CreatedAt: time.Now()}
	f.users[email] = u
	return u, nil
}

func (f *fakeStore) SaveLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[email] = loginCode{hash: codeHash, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) ConsumeLoginCode(ctx context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.codes[email]
	if !ok {
		return "", database.ErrNotFound
	}
	delete(f.codes, email)
	if time.Now().After(code.expiresAt) {
		return "", database.ErrCodeExpired
	}
	return code.hash, nil
}

func (f *fakeStore) GetAdminRole(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.roles[userID]
	if !ok {
		return "", database.ErrNotFound
	}
	return role, nil
}

func (f *fakeStore) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.DashboardStats
	for _, p := range f.photos {
		stats.TotalPhotos++
		if p.Status == models.StatusPublic {
			stats.PublicPhotos++
		} else {
			stats.HiddenPhotos++
		}
	}
	var sum int64
	for _, byUser := range f.ratings {
		for _, v := range byUser {
			stats.TotalRatings++
			sum += int64(v)
		}
	}
	if stats.TotalRatings > 0 {
		stats.OverallAverage = float64(sum) / float64(stats.TotalRatings)
	}
	return stats, nil
}

// fakeUploader records uploads and can be told to fail.
type fakeUploader struct {
	name     string
	fail     bool
	uploads  []string
	deletes  []string
	pingErr  error
}

func (u *fakeUploader) Upload(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if u.fail {
		return "", errors.New("storage unavailable")
	}
	u.uploads = append(u.uploads, fileName)
	return "https://" + u.name + ".example.com/" + fileName, nil
}

func (u *fakeUploader) Delete(ctx context.Context, fileName string) error {
	u.deletes = append(u.deletes, fileName)
	return nil
}

func (u *fakeUploader) Name() string { return u.name }

func (u *fakeUploader) Ping(ctx context.Context) (int, error) {
	if u.pingErr != nil {
		return 0, u.pingErr
	}
	return 1, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  testSecret,
			TokenTTL:   time.Hour,
			CodeTTL:    10 * time.Minute,
			CookieName: "Bearer",
		},
	}
}

type testEnv struct {
	router *gin.Engine
	store  *fakeStore
	blob   *fakeUploader
	cdn    *fakeUploader
	mails  *[]string
}

func newTestEnv(t *testing.T, withCDN bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	store := newFakeStore()
	blob := &fakeUploader{name: models.StorageSupabase}

	var mails []string
	mailer := func(to, subject, body string) error {
		mails = append(mails, body)
		return nil
	}

	var cdn *fakeUploader
	var cdnIface controller.CDN
	if withCDN {
		cdn = &fakeUploader{name: models.StorageImageKit}
		cdnIface = cdn
	}

	ctrl := controller.New(cfg, store, blob, cdnIface, mailer)

	router := gin.New()
	route.Protected(router, cfg, ctrl, store)
	route.Unprotected(router, cfg, ctrl)

	return &testEnv{router: router, store: store, blob: blob, cdn: cdn, mails: &mails}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.SignedToken(testSecret, userID, userID+"@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) grantAdmin(userID string) {
	e.store.roles[userID] = models.RoleAdmin
}
