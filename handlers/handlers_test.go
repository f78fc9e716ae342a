package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakilahmmad71/railway-test-depl/authentication/blacklist"
	"github.com/sakilahmmad71/railway-test-depl/authentication/routes"
	"github.com/sakilahmmad71/railway-test-depl/config"
	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/internal/util"
	"github.com/sakilahmmad71/railway-test-depl/models"
	"github.com/sakilahmmad71/railway-test-depl/repositories"
)

type testEnv struct {
	app   *fiber.App
	cfg   *config.Config
	users *repositories.InMemoryUserStore
	links *repositories.InMemoryLinkStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		UploadDir:          t.TempDir(),
	}

	users := repositories.NewInMemoryUserStore()
	links := repositories.NewInMemoryLinkStore(users)
	app := fiber.New()
	routes.SetupRoutes(app, cfg, users, links, blacklist.NewMemoryBlacklist())
	return &testEnv{app: app, cfg: cfg, users: users, links: links}
}

// seedUser creates a user directly in the store and returns it with a
// valid access token.
func (e *testEnv) seedUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	hash, err := models.HashPassword("password1")
	require.NoError(t, err)

	u := &models.User{Name: name, Email: email, PasswordHash: hash}
	require.NoError(t, e.users.Create(u))

	token, err := util.CreateAccessToken(u, e.cfg.JWTSecret, e.cfg.AccessTokenExpiry)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, bearer string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// doMultipart PUTs a multipart body with optional form fields and one
// optional file part.
func (e *testEnv) doMultipart(t *testing.T, path string, fields map[string]string, fileName string, fileContent []byte, bearer string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("profilePicture", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPut, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// uploadedFiles lists the file names currently in the upload directory.
func (e *testEnv) uploadedFiles(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(e.cfg.UploadDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "Ann Lee", "ann@x.com")
	env.seedUser(t, "Bob Roy", "bob@x.com")

	resp, body := env.do(t, fiber.MethodGet, "/users?page=1&limit=1", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)

	pagination, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, true, pagination["hasNextPage"])
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u, _ := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, body := env.do(t, fiber.MethodGet, "/users/1", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, u.Email, data["email"])
	assert.NotContains(t, data, "passwordHash")

	resp, _ = env.do(t, fiber.MethodGet, "/users/999", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, fiber.MethodGet, "/users/not-a-number", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetProfilePicture_Missing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, _ := env.do(t, fiber.MethodGet, "/users/1/profile-picture", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, fiber.MethodGet, "/users/999/profile-picture", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMe(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, body := env.do(t, fiber.MethodGet, "/users/profile/me", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, u.Email, data["email"])

	resp, _ = env.do(t, fiber.MethodGet, "/users/profile/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateMe_PartialUpdate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, body := env.do(t, fiber.MethodPut, "/users/profile/me", fiber.Map{
		"bio":      "Hello there",
		"location": "Dhaka",
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Hello there", data["bio"])
	assert.Equal(t, "Dhaka", data["location"])
	assert.Equal(t, "Ann Lee", data["name"], "unsupplied fields stay put")

	got, err := env.users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", got.Bio)
	assert.Equal(t, 0, got.TokenVersion, "no password change, no version bump")
}

func TestUpdateMe_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, _ := env.do(t, fiber.MethodPut, "/users/profile/me", fiber.Map{
		"name": "Al",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, fiber.MethodPut, "/users/profile/me", fiber.Map{
		"email": "not-an-email",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMe_EmailConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.seedUser(t, "Ann Lee", "ann@x.com")
	env.seedUser(t, "Bob Roy", "bob@x.com")

	resp, _ := env.do(t, fiber.MethodPut, "/users/profile/me", fiber.Map{
		"email": "bob@x.com",
	}, token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Re-submitting your own email is not a conflict.
	resp, _ = env.do(t, fiber.MethodPut, "/users/profile/me", fiber.Map{
		"email": "ann@x.com",
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateMe_PasswordChangeBumpsVersion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, _ := env.do(t, fiber.MethodPut, "/users/profile/me", fiber.Map{
		"password": "new-password-1",
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	got, err := env.users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TokenVersion)
	assert.True(t, got.CheckPassword("new-password-1"))
	assert.False(t, got.CheckPassword("password1"))
}

func TestUpdateMe_UploadProfilePicture(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	image := []byte("not-really-a-png")
	resp, body := env.doMultipart(t, "/users/profile/me", nil, "avatar.png", image, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	stored, _ := data["profilePicture"].(string)
	require.NotEmpty(t, stored)
	assert.True(t, strings.HasPrefix(stored, "ann-lee-"), "file name is slugged from the user name: %s", stored)
	assert.True(t, strings.HasSuffix(stored, ".png"), stored)

	files := env.uploadedFiles(t)
	require.Equal(t, []string{stored}, files)

	// The stored picture now streams back on the public read path.
	req := httptest.NewRequest(fiber.MethodGet, "/users/1/profile-picture", nil)
	picResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, picResp.StatusCode)
	served, err := io.ReadAll(picResp.Body)
	require.NoError(t, err)
	assert.Equal(t, image, served)

	got, err := env.users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got.ProfilePicture)
}

func TestUpdateMe_ReplacingPictureDeletesPrior(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, body := env.doMultipart(t, "/users/profile/me", nil, "first.jpg", []byte("first"), token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	first := body["data"].(map[string]interface{})["profilePicture"].(string)

	resp, body = env.doMultipart(t, "/users/profile/me", nil, "second.jpg", []byte("second"), token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	second := body["data"].(map[string]interface{})["profilePicture"].(string)
	require.NotEqual(t, first, second)

	files := env.uploadedFiles(t)
	assert.Equal(t, []string{second}, files, "the replaced image file must be deleted")
}

func TestUpdateMe_RejectsNonImageUpload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, _ := env.doMultipart(t, "/users/profile/me", nil, "notes.txt", []byte("plain text"), token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.uploadedFiles(t))
}

// updateConflictStore fails every Update, standing in for a store-level
// uniqueness race.
type updateConflictStore struct {
	*repositories.InMemoryUserStore
}

func (s *updateConflictStore) Update(*models.User) error {
	return domain.ErrConflict
}

func TestUpdateMe_FailedUpdateRemovesNewUpload(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		UploadDir:          t.TempDir(),
	}

	users := repositories.NewInMemoryUserStore()
	links := repositories.NewInMemoryLinkStore(users)
	app := fiber.New()
	routes.SetupRoutes(app, cfg, &updateConflictStore{users}, links, blacklist.NewMemoryBlacklist())
	env := &testEnv{app: app, cfg: cfg, users: users, links: links}

	_, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, _ := env.doMultipart(t, "/users/profile/me", nil, "avatar.png", []byte("png"), token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Empty(t, env.uploadedFiles(t), "a failed update must not leave the saved image behind")
}

func TestAddAndRemoveYoutubeLink(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, body := env.do(t, fiber.MethodPost, "/users/profile/youtube", fiber.Map{
		"youtubeUrl": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"title":      "A video",
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	newLink := body["newLink"].(map[string]interface{})
	linkID, _ := newLink["id"].(string)
	require.NotEmpty(t, linkID)
	assert.Equal(t, "A video", newLink["title"])

	user := body["user"].(map[string]interface{})
	assert.Len(t, user["youtubeLinks"], 1)

	resp, body = env.do(t, fiber.MethodDelete, "/users/profile/youtube/"+linkID, nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.NotContains(t, data, "youtubeLinks")

	links, err := env.links.ListByUser(u.ID)
	require.NoError(t, err)
	assert.Empty(t, links)

	resp, _ = env.do(t, fiber.MethodDelete, "/users/profile/youtube/"+linkID, nil, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAddYoutubeLink_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.seedUser(t, "Ann Lee", "ann@x.com")

	resp, _ := env.do(t, fiber.MethodPost, "/users/profile/youtube", fiber.Map{
		"youtubeUrl": "https://vimeo.com/12345",
		"title":      "Not YouTube",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, fiber.MethodPost, "/users/profile/youtube", fiber.Map{
		"youtubeUrl": "https://youtu.be/abc",
		"title":      "   ",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListContent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	a, _ := env.seedUser(t, "Ann Lee", "ann@x.com")
	b, _ := env.seedUser(t, "Bob Roy", "bob@x.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l1 := models.NewYoutubeLink(a.ID, "https://youtu.be/one", "One")
	l1.AddedAt = base
	l2 := models.NewYoutubeLink(a.ID, "https://youtu.be/two", "Two")
	l2.AddedAt = base.Add(2 * time.Hour)
	l3 := models.NewYoutubeLink(b.ID, "https://youtu.be/three", "Three")
	l3.AddedAt = base.Add(time.Hour)
	require.NoError(t, env.links.Add(&l1))
	require.NoError(t, env.links.Add(&l2))
	require.NoError(t, env.links.Add(&l3))

	resp, body := env.do(t, fiber.MethodGet, "/users/content", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].([]interface{})
	require.Len(t, data, 3)
	first := data[0].(map[string]interface{})
	assert.Equal(t, l2.ID, first["id"], "newest first by default")
	assert.Equal(t, "Ann Lee", first["user"].(map[string]interface{})["name"])

	resp, body = env.do(t, fiber.MethodGet, "/users/content?sortBy=oldest", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].([]interface{})
	assert.Equal(t, l1.ID, data[0].(map[string]interface{})["id"])

	resp, body = env.do(t, fiber.MethodGet, "/users/content?page=2&limit=1", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, l3.ID, data[0].(map[string]interface{})["id"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, true, pagination["hasNextPage"])
	assert.Equal(t, true, pagination["hasPreviousPage"])
	assert.Equal(t, float64(3), pagination["totalPages"])
}

func TestListContent_ClampsLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, fiber.MethodGet, "/users/content?page=-1&limit=900", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["currentPage"])
	assert.Equal(t, float64(0), pagination["total"])
}
