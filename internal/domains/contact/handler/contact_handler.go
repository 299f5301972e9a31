package handler

import (
	"net/http"

	"oneshot-backend/internal/domains/contact/model"
	"oneshot-backend/internal/domains/contact/service"
	"oneshot-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the contact endpoint on rg (/api/contact).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
}

// Submit - POST /api/contact
func (h *Handler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if result.Queued {
		status = http.StatusAccepted
	}
	response.Success(c, status, "Message sent successfully", result)
}
