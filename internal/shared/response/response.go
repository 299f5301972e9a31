package response

import (
	"oneshot-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Count int `json:"count"`
}

// production hides underlying diagnostics from error bodies.
var production bool

// SetProduction toggles diagnostic detail in error responses.
func SetProduction(p bool) {
	production = p
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error responses
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError maps err through the apperror taxonomy. Validation failures
// carry their field list; other failures carry the underlying cause
// outside production.
func FromError(c *gin.Context, err error) {
	status, code, message := apperror.MapErrorToHTTP(err)

	var details interface{}
	if fields := apperror.FieldsOf(err); len(fields) > 0 {
		details = fields
	} else if !production {
		details = err.Error()
	}

	Error(c, status, code, message, details)
}

// Common error responses
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, 400, "BAD_REQUEST", message, details)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 401, "UNAUTHORIZED", message, nil)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 404, "NOT_FOUND", message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, 500, "INTERNAL_SERVER_ERROR", message, nil)
}
