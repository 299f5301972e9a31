package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"oneshot-backend/internal/domains/upload/model"
	"oneshot-backend/internal/domains/upload/service"
	"oneshot-backend/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	service.ServiceInterface
	slug  string
	files []model.IncomingFile
	err   error
}

func (s *recordingService) Upload(ctx context.Context, slug string, files []model.IncomingFile) (*model.UploadResult, error) {
	s.slug, s.files = slug, files
	if s.err != nil {
		return nil, s.err
	}
	return &model.UploadResult{Slug: slug, ProcessedImages: map[string]*storage.ProcessedImage{}}, nil
}

type part struct {
	field, name, mime, body string
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.name))
		h.Set("Content-Type", p.mime)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func setupRouter(svc service.ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/upload"))
	return r
}

func post(r *gin.Engine, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload_PassesPartsToService(t *testing.T) {
	svc := &recordingService{}
	r := setupRouter(svc)

	body, ct := multipartBody(t,
		part{"transcript", "grades.pdf", "application/pdf", "%PDF-1.4"},
		part{"photo", "me.png", "image/png", "png-bytes"},
	)
	w := post(r, "/api/upload/jordan-davis", body, ct)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "jordan-davis", svc.slug)
	require.Len(t, svc.files, 2)
	assert.Equal(t, model.FieldPhoto, svc.files[0].Field)
	assert.Equal(t, "me.png", svc.files[0].OriginalName)
	assert.Equal(t, "image/png", svc.files[0].MimeType)
	assert.Equal(t, int64(len("png-bytes")), svc.files[0].Size)
	assert.Equal(t, model.FieldTranscript, svc.files[1].Field)
}

func TestUpload_RejectsUnknownField(t *testing.T) {
	svc := &recordingService{}
	r := setupRouter(svc)

	body, ct := multipartBody(t, part{"avatar", "me.png", "image/png", "x"})
	w := post(r, "/api/upload/jordan-davis", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unexpected file field")
	assert.Empty(t, svc.slug)
}

func TestUpload_InvalidSlug(t *testing.T) {
	r := setupRouter(&recordingService{})

	body, ct := multipartBody(t, part{"photo", "me.png", "image/png", "x"})
	w := post(r, "/api/upload/Not_A_Slug", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_NotMultipartMeansNoFiles(t *testing.T) {
	r := setupRouter(&recordingService{})

	w := post(r, "/api/upload/jordan-davis", bytes.NewBufferString(`{}`), "application/json")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Details []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, model.CodeNoFiles, env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "At least one file must be uploaded", env.Error.Details[0].Message)
}

func TestUpload_ServiceErrorMapsStatus(t *testing.T) {
	svc := &recordingService{err: model.NewProcessingFailed(fmt.Errorf("decoder exploded"))}
	r := setupRouter(svc)

	body, ct := multipartBody(t, part{"photo", "me.png", "image/png", "x"})
	w := post(r, "/api/upload/jordan-davis", body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Photo processing failed"))
}
