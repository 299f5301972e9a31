package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"oneshot-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFromError_ValidationCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	FromError(c, apperror.Validation("VALIDATION_FAILED", "Validation failed",
		apperror.FieldError{Field: "fullName", Message: "Full name is required (min 2 characters)"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Contains(t, rec.Body.String(), `"field":"fullName"`)
}

func TestFromError_DiagnosticsOnlyOutsideProduction(t *testing.T) {
	err := apperror.IO("PROFILE_WRITE_FAILED", "Failed to write profile", errors.New("disk full"))

	SetProduction(false)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	FromError(c, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")

	SetProduction(true)
	defer SetProduction(false)
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	FromError(c, err)
	assert.NotContains(t, rec.Body.String(), "disk full")
	assert.Contains(t, rec.Body.String(), "Failed to write profile")
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Success(c, http.StatusCreated, "Created", gin.H{"slug": "jordan-davis"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Created", body.Message)
}
