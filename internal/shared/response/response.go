package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta accompanies unpaginated list responses.
type Meta struct {
	Count int `json:"count"`
}

// OK writes a successful envelope around data.
func OK(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Data: data})
}

// List writes a 200 envelope around items with their count.
func List(c *gin.Context, items interface{}, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: items, Meta: &Meta{Count: count}})
}

// Fail writes an error envelope.
func Fail(c *gin.Context, statusCode int, code, message string) {
	FailWithDetails(c, statusCode, code, message, nil)
}

// FailWithDetails writes an error envelope carrying per-field details.
func FailWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// Internal hides the cause behind a generic 500.
func Internal(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "SYS_001", "Something went wrong, please try again later")
}
