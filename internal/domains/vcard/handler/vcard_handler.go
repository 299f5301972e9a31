package handler

import (
	"fmt"
	"net/http"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/repository"
	"oneshot-backend/internal/domains/profile/service"
	"oneshot-backend/internal/domains/vcard"
	"oneshot-backend/internal/shared/response"
	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	profiles repository.Repository
	metrics  *metrics.Manager
}

func NewHandler(profiles repository.Repository, m *metrics.Manager) *Handler {
	return &Handler{profiles: profiles, metrics: m}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:slug", h.Download)
	rg.GET("/:slug/preview", h.Preview)
}

type previewResponse struct {
	FileName   string `json:"fileName"`
	Content    string `json:"content"`
	ProfileURL string `json:"profileUrl"`
	Athlete    struct {
		Name   string `json:"name"`
		Jersey string `json:"jersey,omitempty"`
		School string `json:"school"`
	} `json:"athlete"`
}

// Download - GET /api/vcard/:slug
func (h *Handler) Download(c *gin.Context) {
	profile, profileURL, ok := h.lookup(c)
	if !ok {
		return
	}
	file := vcard.BuildFile(profile, profileURL)

	h.metrics.RecordVCard()
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Header("Cache-Control", "no-cache")
	c.Header("X-OneShot-Type", "vcard-download")
	c.Data(http.StatusOK, vcard.MimeType+"; charset=utf-8", []byte(file.Content))
}

// Preview - GET /api/vcard/:slug/preview
func (h *Handler) Preview(c *gin.Context) {
	profile, profileURL, ok := h.lookup(c)
	if !ok {
		return
	}
	file := vcard.BuildFile(profile, profileURL)

	var resp previewResponse
	resp.FileName = file.FileName
	resp.Content = file.Content
	resp.ProfileURL = profileURL
	resp.Athlete.Name = profile.FullName
	resp.Athlete.Jersey = profile.JerseyNumber
	resp.Athlete.School = profile.HighSchoolName

	response.Success(c, http.StatusOK, "vCard preview", resp)
}

// lookup validates :slug and resolves the profile; it writes the error
// response itself when it returns false.
func (h *Handler) lookup(c *gin.Context) (*model.AthleteProfile, string, bool) {
	slug := c.Param("slug")
	if err := utils.ValidateSlugParam(slug); err != nil {
		response.FromError(c, err)
		return nil, "", false
	}

	profile, err := h.profiles.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		response.FromError(c, err)
		return nil, "", false
	}

	log.Debug().Str("slug", slug).Msg("Building vCard")
	return profile, service.ProfileURL(utils.RequestBaseURL(c), slug), true
}
