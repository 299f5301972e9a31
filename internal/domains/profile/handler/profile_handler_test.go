package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"oneshot-backend/internal/domains/profile/render"
	"oneshot-backend/internal/domains/profile/repository"
	"oneshot-backend/internal/domains/profile/service"
	"oneshot-backend/internal/infrastructure/qrcode"
	"oneshot-backend/pkg/keylock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer := render.NewRenderer()
	gen := service.NewGenerator(
		service.GeneratorConfig{
			ProfilesDir: filepath.Join(t.TempDir(), "profiles"),
			QROptions:   qrcode.ProfileOptions(),
		},
		render.NewTemplateStore("../../../../templates/profile-template.html", renderer),
		renderer,
		qrcode.NewEncoder(nil),
		keylock.New(),
		nil,
	)
	svc := service.NewProfileService(
		repository.NewMemoryRepository(repository.SeedProfiles()...),
		gen,
		qrcode.NewEncoder(nil),
		nil,
		"http://localhost:3000",
	)

	r := gin.New()
	withUser := func(c *gin.Context) {
		c.Set("userID", "user-42")
		c.Next()
	}
	NewHandler(svc).RegisterRoutes(r.Group("/api/profiles"), withUser)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Host = "localhost:3000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListProfiles(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/profiles?school=lincoln", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"count":1`)
	assert.Contains(t, string(env.Data), `"slug":"jordan-davis"`)
}

func TestGetProfile_PrivateIsNotFound(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/profiles/2", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PROFILE_NOT_FOUND", env.Error.Code)
}

func TestGenerateProfile_EndToEnd(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/profiles/generate",
		`{"fullName":"Jordan Davis","primaryPosition":"Wide Receiver","highSchoolName":"Lincoln High","graduationYear":2024}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	var data struct {
		Profile struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
			URL  string `json:"url"`
		} `json:"profile"`
		Generated string `json:"generated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Jordan Davis", data.Profile.Name)
	assert.Equal(t, "jordan-davis", data.Profile.Slug)
	assert.Equal(t, "http://localhost:3000/profiles/jordan-davis.html", data.Profile.URL)
	assert.NotEmpty(t, data.Generated)

	detail := do(r, http.MethodGet, "/api/profiles/1", "")
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), `"hasGeneratedHtml":true`)
}

func TestGenerateProfile_ValidationDetails(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/profiles/generate", `{"fullName":"J"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	var details []map[string]string
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	require.Len(t, details, 3)
	assert.Equal(t, "fullName", details[0]["field"])
}

func TestCreateProfile_UsesCaller(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/profiles",
		`{"fullName":"Casey Jones","primaryPosition":"Safety","highSchoolName":"North High","public":false}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, `"userId":"user-42"`)
	assert.Contains(t, body, `"slug":"casey-jones"`)
	assert.Contains(t, body, `"public":false`)
}

func TestCreateProfile_MalformedJSON(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/profiles", `{"fullName":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQRCodeDownload(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/profiles/1/qr/download", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="qr-code-jordan-davis.png"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestQRCodeJSON_UnknownProfile(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/profiles/999/qr", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No profile found with ID: 999")
}

func TestRegenerateProfile_InlineWithoutQueue(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/profiles/1/generate?async=true", "")

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestExportProfiles(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/profiles/export?position=quarterback", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="roster-quarterback.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")
}
