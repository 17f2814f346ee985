package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is the envelope every handler returns: {"code","data","message"}.
// Header is written to the response and never serialized into the body.
type ServiceResult struct {
	StatusCode int         `json:"code"`
	Data       any         `json:"data"`
	Message    string      `json:"message"`
	Header     http.Header `json:"-"`
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	return gin.H{
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}
}

// WithHeader sets a response header and returns the result for chaining.
func (result *ServiceResult) WithHeader(key, value string) *ServiceResult {
	if result.Header == nil {
		result.Header = http.Header{}
	}
	result.Header.Set(key, value)
	return result
}

func (result *ServiceResult) write(c *RequestContext) {
	for key, values := range result.Header {
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}
	c.JSON(result.StatusCode, result.ToJSON())
}
