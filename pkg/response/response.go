package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Statuses used in the response envelope.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Body is the standard API response envelope. Every endpoint returns
// structured JSON with a status marker, never a bare fault.
type Body struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK sends a 200 success response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Status: StatusSuccess, Data: data})
}

// OKMessage sends a 200 success response with a message only.
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Body{Status: StatusSuccess, Message: message})
}

// Created sends a 201 success response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Status: StatusSuccess, Data: data})
}

// CreatedMessage sends a 201 success response with a message and data.
func CreatedMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Status: StatusSuccess, Message: message, Data: data})
}

// OKPayload sends a 200 success response with a message and data.
func OKPayload(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Status: StatusSuccess, Message: message, Data: data})
}

// BadRequest sends 400 with an error message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Status: StatusError, Message: message})
}

// ValidationErrors sends 400 with field-level errors.
func ValidationErrors(c *gin.Context, errs interface{}) {
	c.JSON(http.StatusBadRequest, Body{Status: StatusError, Errors: errs})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Body{Status: StatusError, Message: message})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Body{Status: StatusError, Message: message})
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Body{Status: StatusError, Message: message})
}

// Internal sends 500.
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Body{Status: StatusError, Message: message})
}
