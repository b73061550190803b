package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error body every endpoint returns on failure.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError writes the error body and records the original error
// on the gin context so the logging middleware can report it.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	c.Error(err).SetType(gin.ErrorTypePublic).SetMeta(resp)
	c.AbortWithStatusJSON(status, resp)
}
