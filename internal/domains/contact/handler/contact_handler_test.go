package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oneshot-backend/internal/domains/contact/service"
	"oneshot-backend/internal/infrastructure/email"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullSender struct{ count int }

func (s *nullSender) Send(ctx context.Context, msg email.Message) error {
	s.count++
	return nil
}

func setupRouter(recipient string) (*gin.Engine, *nullSender) {
	gin.SetMode(gin.TestMode)
	sender := &nullSender{}
	r := gin.New()
	NewHandler(service.NewContactService(sender, nil, recipient)).RegisterRoutes(r.Group("/api/contact"))
	return r, sender
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"fullName":"Coach Taylor","email":"taylor@dillon.edu","message":"Please call me about Jordan."}`

func TestSubmit_OK(t *testing.T) {
	r, sender := setupRouter("scouting@oneshot.local")

	w := post(r, validBody)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, sender.count)
	assert.Contains(t, w.Body.String(), `"queued":false`)
}

func TestSubmit_ValidationDetails(t *testing.T) {
	r, sender := setupRouter("scouting@oneshot.local")

	w := post(r, `{"fullName":"J","email":"x","message":"hi"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var env struct {
		Error struct {
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Error.Details, 3)
	assert.Zero(t, sender.count)
}

func TestSubmit_MissingRecipient(t *testing.T) {
	r, _ := setupRouter("")

	w := post(r, validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to send email. Please try again later.")
}

func TestSubmit_MalformedJSON(t *testing.T) {
	r, _ := setupRouter("scouting@oneshot.local")

	assert.Equal(t, http.StatusBadRequest, post(r, `{"fullName":`).Code)
}
