package utils

import "github.com/gin-gonic/gin"

// APIResponse is the JSON envelope every handler replies with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{Success: true, Message: message, Data: data})
}

// ErrorResponse replies with the envelope's failure shape. Pass a nil err
// when the message alone is enough; internal error details should not be
// leaked to end users.
func ErrorResponse(c *gin.Context, code int, message string, err error) {
	resp := APIResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(code, resp)
}
