package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratemypic/database"
	"ratemypic/models"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t, false)
	photo := env.store.addPhoto(models.StatusPublic)
	body := fmt.Sprintf(`{"photo_id":%q}`, photo.ID)

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/admin/photos"},
		{http.MethodPatch, "/admin/photos"},
		{http.MethodDelete, "/admin/photos"},
		{http.MethodPost, "/admin/upload-url"},
		{http.MethodGet, "/admin/dashboard"},
		{http.MethodGet, "/admin/storage"},
	}

	for _, r := range routes {
		// Unauthenticated
		w := env.do(t, r.method, r.path, body, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without session", r.method, r.path)

		// Authenticated, no admin role
		w = env.do(t, r.method, r.path, body, env.token(t, "plain-user"))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as non-admin", r.method, r.path)
	}

	// A role row with any other value still denies
	env.store.roles["moderator-user"] = "moderator"
	w := env.do(t, http.MethodGet, "/admin/photos", "", env.token(t, "moderator-user"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTogglePhotoStatus(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")
	token := env.token(t, "admin-1")
	photo := env.store.addPhoto(models.StatusPublic)
	body := fmt.Sprintf(`{"photo_id":%q}`, photo.ID)

	w := env.do(t, http.MethodPatch, "/admin/photos", body, token)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := env.store.GetPhoto(t.Context(), photo.ID)
	assert.Equal(t, models.StatusHidden, got.Status)

	w = env.do(t, http.MethodPatch, "/admin/photos", body, token)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = env.store.GetPhoto(t.Context(), photo.ID)
	assert.Equal(t, models.StatusPublic, got.Status)
}

func TestSetPhotoStatusExplicit(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")
	token := env.token(t, "admin-1")
	photo := env.store.addPhoto(models.StatusPublic)

	w := env.do(t, http.MethodPatch, "/admin/photos",
		fmt.Sprintf(`{"photo_id":%q,"status":"hidden"}`, photo.ID), token)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := env.store.GetPhoto(t.Context(), photo.ID)
	assert.Equal(t, models.StatusHidden, got.Status)

	// Unknown status values are rejected
	w = env.do(t, http.MethodPatch, "/admin/photos",
		fmt.Sprintf(`{"photo_id":%q,"status":"archived"}`, photo.ID), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePhotoCascadesRatings(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")
	photo := env.store.addPhoto(models.StatusPublic)

	w := env.do(t, http.MethodPost, "/rate",
		fmt.Sprintf(`{"photo_id":%q,"rating_value":9}`, photo.ID), env.token(t, "user-1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/admin/photos",
		fmt.Sprintf(`{"photo_id":%q}`, photo.ID), env.token(t, "admin-1"))
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.store.GetPhoto(t.Context(), photo.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	ratings, err := env.store.UserRatings(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestDeletePhotoRemovesBlob(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")
	photo := env.store.addPhoto(models.StatusPublic)

	w := env.do(t, http.MethodDelete, "/admin/photos",
		fmt.Sprintf(`{"photo_id":%q}`, photo.ID), env.token(t, "admin-1"))
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, env.blob.deletes, 1)
	// Only the object key, not the full URL, goes to storage
	assert.NotContains(t, env.blob.deletes[0], "/")
}

func TestDeleteUnknownPhotoSucceeds(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")

	w := env.do(t, http.MethodDelete, "/admin/photos",
		`{"photo_id":"never-existed"}`, env.token(t, "admin-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.blob.deletes)
}

func TestAdminListIncludesHiddenPhotos(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")
	env.store.addPhoto(models.StatusPublic)
	env.store.addPhoto(models.StatusHidden)

	w := env.do(t, http.MethodGet, "/admin/photos", "", env.token(t, "admin-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")
	photo := env.store.addPhoto(models.StatusPublic)
	env.store.addPhoto(models.StatusHidden)

	w := env.do(t, http.MethodPost, "/rate",
		fmt.Sprintf(`{"photo_id":%q,"rating_value":4}`, photo.ID), env.token(t, "user-1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/admin/dashboard", "", env.token(t, "admin-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_photos":2`)
	assert.Contains(t, w.Body.String(), `"public_photos":1`)
	assert.Contains(t, w.Body.String(), `"total_ratings":1`)
}

func TestStorageDiagnostics(t *testing.T) {
	env := newTestEnv(t, true)

	env.grantAdmin("admin-1")
	w := env.do(t, http.MethodGet, "/admin/storage", "", env.token(t, "admin-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imagekit_configured":true`)
	assert.Contains(t, w.Body.String(), "ImageKit connection successful!")
}

func TestStorageDiagnosticsWithoutImageKit(t *testing.T) {
	env := newTestEnv(t, false)
	env.grantAdmin("admin-1")

	w := env.do(t, http.MethodGet, "/admin/storage", "", env.token(t, "admin-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imagekit_configured":false`)
}
