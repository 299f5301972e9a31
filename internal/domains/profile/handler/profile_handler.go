package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/service"
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

// RegisterRoutes mounts the profile endpoints on rg (/api/profiles).
// optionalAuth resolves the caller when a bearer token is present.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	rg.GET("", h.ListProfiles)
	rg.GET("/export", h.ExportProfiles)
	rg.POST("", optionalAuth, h.CreateProfile)
	rg.POST("/generate", h.GenerateProfile)
	rg.GET("/:id", h.GetProfile)
	rg.POST("/:id/generate", h.RegenerateProfile)
	rg.GET("/:id/qr", h.GetQRCode)
	rg.GET("/:id/qr/download", h.DownloadQRCode)
}

// ListProfiles - GET /api/profiles?position=&school=&year=
func (h *Handler) ListProfiles(c *gin.Context) {
	filter := parseFilter(c)

	data, err := h.service.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Profiles retrieved successfully", data, &response.Meta{Count: data.Count})
}

// GetProfile - GET /api/profiles/:id
func (h *Handler) GetProfile(c *gin.Context) {
	data, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", data)
}

// CreateProfile - POST /api/profiles
func (h *Handler) CreateProfile(c *gin.Context) {
	var req model.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created successfully", profile)
}

// GenerateProfile - POST /api/profiles/generate (JSON record → static HTML)
func (h *Handler) GenerateProfile(c *gin.Context) {
	var req model.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.service.GeneratePage(c.Request.Context(), req, utils.RequestBaseURL(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile generated successfully", toGenerateResponse(req.FullName, result))
}

// RegenerateProfile - POST /api/profiles/:id/generate[?async=true]
func (h *Handler) RegenerateProfile(c *gin.Context) {
	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))

	result, err := h.service.RegenerateProfile(c.Request.Context(), c.Param("id"), utils.RequestBaseURL(c), async)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// an empty FilePath means the work was queued
	if result.FilePath == "" {
		response.Success(c, http.StatusAccepted, "Profile generation scheduled", toGenerateResponse("", result))
		return
	}
	response.Success(c, http.StatusCreated, "Profile generated successfully", toGenerateResponse("", result))
}

// GetQRCode - GET /api/profiles/:id/qr
func (h *Handler) GetQRCode(c *gin.Context) {
	data, err := h.service.QRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "QR code generated successfully", data)
}

// DownloadQRCode - GET /api/profiles/:id/qr/download
func (h *Handler) DownloadQRCode(c *gin.Context) {
	png, slug, err := h.service.QRCodePNG(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="qr-code-%s.png"`, slug))
	c.Header("Content-Length", strconv.Itoa(len(png)))
	c.Data(http.StatusOK, "image/png", png)
}

// ExportProfiles - GET /api/profiles/export
func (h *Handler) ExportProfiles(c *gin.Context) {
	filter := parseFilter(c)

	f, count, err := h.service.ExportProfilesToExcel(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialise roster workbook")
		response.InternalServerError(c, "Failed to export profiles")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.RosterFileName(filter)))
	c.Header("X-Total-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func parseFilter(c *gin.Context) model.ListFilter {
	filter := model.ListFilter{
		Position: c.Query("position"),
		School:   c.Query("school"),
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		filter.Year = y
	}
	return filter
}

func toGenerateResponse(name string, result *model.GenerationResult) model.GenerateResponse {
	var resp model.GenerateResponse
	resp.Profile.Name = name
	resp.Profile.Slug = result.Slug
	resp.Profile.FileName = result.FileName
	resp.Profile.URL = result.ProfileURL
	resp.Profile.Degraded = result.Degraded
	resp.Generated = time.Now().UTC().Format(time.RFC3339)
	return resp
}
