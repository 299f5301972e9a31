package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oneshot-backend/pkg/jwt"
	"oneshot-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	c.String(http.StatusOK, "user=%s", c.GetString(ContextUserID))
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Minute, time.Hour)
	access, err := tokens.GenerateAccessToken("user-7", "a@b.co", "user")
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken("user-7")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), whoami)

	ok := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + access})
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "user=user-7", ok.Body.String())

	lower := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "bearer " + access})
	assert.Equal(t, http.StatusOK, lower.Code)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + refresh}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Basic abc"}).Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Minute, time.Hour)
	access, err := tokens.GenerateAccessToken("user-7", "", "")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", OptionalAuth(tokens), whoami)

	assert.Equal(t, "user=", serve(r, http.MethodGet, "/", nil).Body.String())
	assert.Equal(t, "user=", serve(r, http.MethodGet, "/", map[string]string{"Authorization": "Bearer junk"}).Body.String())
	assert.Equal(t, "user=user-7", serve(r, http.MethodGet, "/", map[string]string{"Authorization": "Bearer " + access}).Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	kept := serve(r, http.MethodGet, "/", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", kept.Body.String())
	assert.Equal(t, "abc-123", kept.Header().Get(HeaderRequestID))

	fresh := serve(r, http.MethodGet, "/", map[string]string{HeaderRequestID: strings.Repeat("x", 65)})
	assert.Len(t, fresh.Body.String(), 36)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000"))
	r.GET("/", whoami)

	allowed := serve(r, http.MethodGet, "/", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", allowed.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", allowed.Header().Get("Access-Control-Allow-Credentials"))

	other := serve(r, http.MethodGet, "/", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, other.Header().Get("Access-Control-Allow-Origin"))

	preflight := serve(r, http.MethodOptions, "/", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Contains(t, preflight.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"SYS_001"`)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewManager(metrics.WithNamespace("mw"))
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/profiles/:id", whoami)

	serve(r, http.MethodGet, "/api/profiles/1", nil)
	serve(r, http.MethodGet, "/api/profiles/2", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "mw_api_http_requests_total"))
}
