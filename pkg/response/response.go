package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viw-carta/backend/pkg/apperr"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403 with a machine-readable reason code.
func Forbidden(c *gin.Context, err, code string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err, Code: code})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Error translates an application error into the HTTP response. It is the
// single place where error kinds map to status codes, so handlers never
// repeat status logic.
func Error(c *gin.Context, err error) {
	appErr := apperr.As(err)
	switch appErr.Kind {
	case apperr.KindUnauthorized:
		Unauthorized(c, appErr.Msg)
	case apperr.KindForbidden:
		Forbidden(c, appErr.Msg, appErr.Reason)
	case apperr.KindNotFound:
		NotFound(c, appErr.Msg)
	case apperr.KindConflict:
		Conflict(c, appErr.Msg)
	case apperr.KindValidation:
		BadRequest(c, appErr.Msg)
	default:
		Internal(c, "internal error")
	}
}
