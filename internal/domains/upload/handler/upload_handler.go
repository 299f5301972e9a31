package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"

	"oneshot-backend/internal/domains/upload/model"
	"oneshot-backend/internal/domains/upload/service"
	"oneshot-backend/internal/shared/response"
	"oneshot-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the upload endpoint on rg (/api/upload).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:slug", h.Upload)
}

// Upload - POST /api/upload/:slug (multipart: photo, transcript)
func (h *Handler) Upload(c *gin.Context) {
	slug := c.Param("slug")
	if err := utils.ValidateSlugParam(slug); err != nil {
		response.FromError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			response.FromError(c, model.ErrNoFiles)
			return
		}
		response.BadRequest(c, "Invalid multipart body", err.Error())
		return
	}

	files, closers, err := collectFiles(form)
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.Upload(c.Request.Context(), slug, files)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Upload rejected")
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Files uploaded successfully", result)
}

// collectFiles opens every part of the photo and transcript fields.
// Parts under any other field name are rejected.
func collectFiles(form *multipart.Form) ([]model.IncomingFile, []multipart.File, error) {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var (
		files   []model.IncomingFile
		closers []multipart.File
	)
	for _, field := range fields {
		if field != model.FieldPhoto && field != model.FieldTranscript {
			return nil, closers, model.NewInvalidFile(field, []string{"Unexpected file field"})
		}
		for _, header := range form.File[field] {
			f, err := header.Open()
			if err != nil {
				return nil, closers, model.NewInvalidFile(field, []string{"Uploaded file could not be read"})
			}
			closers = append(closers, f)
			files = append(files, model.IncomingFile{
				Field:        field,
				OriginalName: header.Filename,
				MimeType:     header.Header.Get("Content-Type"),
				Size:         header.Size,
				Content:      f,
			})
		}
	}
	return files, closers, nil
}
