package utils

import (
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  []string    `json:"fields,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, code int, message string, err error) {
	FieldErrorResponse(c, code, message, err, nil)
}

// FieldErrorResponse is ErrorResponse plus the list of offending request fields.
func FieldErrorResponse(c *gin.Context, code int, message string, err error, fields []string) {
	response := APIResponse{
		Success: false,
		Message: message,
		Fields:  fields,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(code, response)
}
