package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const defaultRequestTimeout = 5 * time.Second

// requestContext bounds the store calls made for one request.
func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// pathID parses a positive integer path parameter. Anything else is not a
// route we serve.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

// absoluteURL rebuilds the URL the client called, honouring a TLS
// terminating proxy in front of the server.
func absoluteURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		u.Scheme = proto
	}
	return &u
}

func writePage[T any](c *gin.Context, res *service.PageResult[T]) {
	c.JSON(http.StatusOK, dto.NewPage(res.Items, res.Count, res.Number, res.Size, absoluteURL(c)))
}
