package handler

import (
	"net/http"
	"time"

	"oneshot-backend/internal/domains/user/model"
	"oneshot-backend/internal/domains/user/service"
	"oneshot-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type Handler struct {
	service      service.ServiceInterface
	refreshTTL   time.Duration
	secureCookie bool
}

func NewHandler(service service.ServiceInterface, refreshTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{service: service, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

// RegisterRoutes mounts the auth endpoints on rg (/api/auth).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.GET("/me", requireAuth, h.Me)
}

// Register - POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", user)
}

// Login - POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, "Login successful", tokens)
}

// Refresh - POST /api/auth/refresh (body refreshToken or refresh_token cookie)
func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body", err.Error())
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}
	if req.RefreshToken == "" {
		response.Unauthorized(c, "Missing refresh token")
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, "Token refreshed", tokens)
}

// Me - GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Authenticated successfully", user)
}

func (h *Handler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, token, int(h.refreshTTL/time.Second), "/api/auth", "", h.secureCookie, true)
}
