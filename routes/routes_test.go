package routes_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"gamestore/handlers"
	"gamestore/models"
	"gamestore/routes"
	"gamestore/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	authService *services.AuthService
	gameService *services.GameService
	assetsRoot  string
	download    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.GameStatus{},
		&models.Game{},
	))

	statusService, err := services.NewStatusService(db)
	require.NoError(t, err)

	assetsRoot := t.TempDir()
	assetService := services.NewAssetService(assetsRoot)
	authService := services.NewAuthService(db, testJWTSecret)
	companyService := services.NewCompanyService(db)
	gameService := services.NewGameService(db, nil, statusService, assetService)

	download := filepath.Join(t.TempDir(), "common.rpf")
	require.NoError(t, os.WriteFile(download, []byte("archive-payload"), 0o644))

	router := gin.New()
	routes.SetupRoutes(router,
		handlers.NewAuthHandler(authService),
		handlers.NewGameHandler(gameService),
		handlers.NewCompanyHandler(companyService),
		handlers.NewAssetsHandler(gameService, assetService),
		testJWTSecret,
		download,
	)

	return &testEnv{
		router:      router,
		db:          db,
		authService: authService,
		gameService: gameService,
		assetsRoot:  assetsRoot,
		download:    download,
	}
}

func (env *testEnv) createUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	user := models.User{Email: email, Username: "u-" + email, PasswordHash: "x", Role: role}
	require.NoError(t, env.db.Create(&user).Error)
	token, err := env.authService.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func (env *testEnv) createCompany(t *testing.T, ownerID uint, approved bool) *models.Company {
	t.Helper()
	company := models.Company{Title: "Studio", OwnerID: ownerID, IsApproved: approved}
	require.NoError(t, env.db.Create(&company).Error)
	return &company
}

func (env *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return env.do(t, method, path, token, bytes.NewReader(data), "application/json")
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestLiveness(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, w.Body.String())
}

func TestCreateGameWithoutCompany(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "dev@example.com", models.RoleUser)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Game{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateGameUnapprovedCompany(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, false)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGameApprovedCompany(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))
	assert.Equal(t, models.StatusNotSend, game.Status.Title)

	contents, err := os.ReadDir(filepath.Join(env.assetsRoot, game.Directory))
	require.NoError(t, err)
	assert.Empty(t, contents, "asset directory starts empty")
}

func TestCreateGameRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/games/", "", gin.H{"title": "X"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApproveGame(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)
	_, adminToken := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))

	// Non-admin callers are rejected.
	w = env.doJSON(t, http.MethodPatch, fmt.Sprintf("/games/%d/approve/", game.ID), token, gin.H{"approved": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodPatch, fmt.Sprintf("/games/%d/approve/", game.ID), adminToken, gin.H{"approved": true})
	assert.Equal(t, http.StatusNoContent, w.Code)

	approved, err := env.gameService.GetGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status.Title)

	// Denial forces the game back out of the published state.
	w = env.doJSON(t, http.MethodPatch, fmt.Sprintf("/games/%d/approve/", game.ID), adminToken, gin.H{"approved": false})
	assert.Equal(t, http.StatusNoContent, w.Code)

	denied, err := env.gameService.GetGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotSend, denied.Status.Title)
}

func TestApproveUnknownGame(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPatch, "/games/9999/approve/", adminToken, gin.H{"approved": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCompany(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", models.RoleUser)

	w := env.doJSON(t, http.MethodPost, "/companies/", token, gin.H{"title": "Studio"})
	require.Equal(t, http.StatusCreated, w.Code)

	var company models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	assert.False(t, company.IsApproved)

	w = env.doJSON(t, http.MethodPost, "/companies/", token, gin.H{"title": "Second"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminCompanyListing(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "user@example.com", models.RoleUser)
	_, adminToken := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.do(t, http.MethodGet, "/admin/companies/", userToken, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/admin/companies/", adminToken, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminApprovesCompanyThenGameCreateSucceeds(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	company := env.createCompany(t, user.ID, false)
	_, adminToken := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPatch, fmt.Sprintf("/admin/companies/%d/approve/", company.ID), adminToken, gin.H{"approved": true})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHeaderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)
	_, adminToken := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))

	headerPath := fmt.Sprintf("/assets/header/?game_id=%d", game.ID)

	// No file yet.
	w = env.do(t, http.MethodGet, headerPath, "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Approve, then upload: the upload must unpublish.
	w = env.doJSON(t, http.MethodPatch, fmt.Sprintf("/games/%d/approve/", game.ID), adminToken, gin.H{"approved": true})
	require.Equal(t, http.StatusNoContent, w.Code)

	body, contentType := multipartBody(t, "file", map[string]string{"header.webp": "image-bytes"})
	w = env.do(t, http.MethodPost, headerPath, token, body, contentType)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	unpublished, err := env.gameService.GetGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpublished, unpublished.Status.Title)

	// Download round-trip preserves the filename and bytes.
	w = env.do(t, http.MethodGet, headerPath, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "filename=header.webp", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.Equal(t, "image-bytes", w.Body.String())

	// A second file breaks the single-file invariant.
	headerDir := filepath.Join(env.assetsRoot, game.Directory, "header")
	require.NoError(t, os.WriteFile(filepath.Join(headerDir, "extra.webp"), []byte("x"), 0o644))
	w = env.do(t, http.MethodGet, headerPath, "", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHeaderUploadByStranger(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)
	_, strangerToken := env.createUser(t, "other@example.com", models.RoleUser)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))

	body, contentType := multipartBody(t, "file", map[string]string{"header.webp": "image-bytes"})
	w = env.do(t, http.MethodPost, fmt.Sprintf("/assets/header/?game_id=%d", game.ID), strangerToken, body, contentType)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCapsuleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)
	_, adminToken := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))

	capsulePath := fmt.Sprintf("/assets/capsule/?game_id=%d", game.ID)

	// No file yet.
	w = env.do(t, http.MethodGet, capsulePath, "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Approve, then upload: the upload must unpublish.
	w = env.doJSON(t, http.MethodPatch, fmt.Sprintf("/games/%d/approve/", game.ID), adminToken, gin.H{"approved": true})
	require.Equal(t, http.StatusNoContent, w.Code)

	body, contentType := multipartBody(t, "file", map[string]string{"capsule.webp": "capsule-bytes"})
	w = env.do(t, http.MethodPost, capsulePath, token, body, contentType)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	unpublished, err := env.gameService.GetGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpublished, unpublished.Status.Title)

	// Download round-trip preserves the filename and bytes.
	w = env.do(t, http.MethodGet, capsulePath, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "filename=capsule.webp", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.Equal(t, "capsule-bytes", w.Body.String())

	// The capsule lives in its own subdirectory, not the header's.
	w = env.do(t, http.MethodGet, fmt.Sprintf("/assets/header/?game_id=%d", game.ID), "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A second file breaks the single-file invariant.
	capsuleDir := filepath.Join(env.assetsRoot, game.Directory, "capsule")
	require.NoError(t, os.WriteFile(filepath.Join(capsuleDir, "extra.webp"), []byte("x"), 0o644))
	w = env.do(t, http.MethodGet, capsulePath, "", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestScreenshotsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))

	screenshotsPath := fmt.Sprintf("/assets/screenshots/?game_id=%d", game.ID)

	body, contentType := multipartBody(t, "files", map[string]string{
		"shot1.png": "pixels-1",
		"shot2.png": "pixels-2",
	})
	w = env.do(t, http.MethodPost, screenshotsPath, token, body, contentType)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	unpublished, err := env.gameService.GetGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpublished, unpublished.Status.Title)

	w = env.do(t, http.MethodGet, screenshotsPath, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.ElementsMatch(t, []string{"shot1.png", "shot2.png"}, listing.Files)

	w = env.do(t, http.MethodGet, screenshotsPath+"&filename=shot2.png", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pixels-2", w.Body.String())

	w = env.do(t, http.MethodGet, screenshotsPath+"&filename=missing.png", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Re-upload replaces the whole set.
	body, contentType = multipartBody(t, "files", map[string]string{"shot3.png": "pixels-3"})
	w = env.do(t, http.MethodPost, screenshotsPath, token, body, contentType)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, screenshotsPath, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, []string{"shot3.png"}, listing.Files)
}

func TestTrailersLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "dev@example.com", models.RoleUser)
	env.createCompany(t, user.ID, true)

	w := env.doJSON(t, http.MethodPost, "/games/", token, gin.H{"title": "X"})
	require.Equal(t, http.StatusCreated, w.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))

	trailersPath := fmt.Sprintf("/assets/trailers/?game_id=%d", game.ID)

	body, contentType := multipartBody(t, "files", map[string]string{
		"a.mp4": "video-a",
		"b.mp4": "video-b",
	})
	w = env.do(t, http.MethodPost, trailersPath, token, body, contentType)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	unpublished, err := env.gameService.GetGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpublished, unpublished.Status.Title)

	w = env.do(t, http.MethodGet, trailersPath, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.ElementsMatch(t, []string{"a.mp4", "b.mp4"}, listing.Files)

	w = env.do(t, http.MethodGet, trailersPath+"&filename=a.mp4", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video-a", w.Body.String())

	w = env.do(t, http.MethodGet, trailersPath+"&filename=missing.mp4", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssetUnknownGame(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/assets/header/?game_id=9999", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadStreamsGzip(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/download/", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Equal(t, "filename=common.rpf", w.Header().Get("Content-Disposition"))

	reader, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	decompressed, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "archive-payload", string(decompressed))
}
