package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

type errorBodyWriter struct {
	gin.ResponseWriter
	c *gin.Context
}

func (w *errorBodyWriter) Write(b []byte) (int, error) {
	if status := w.c.Writer.Status(); status >= 400 {
		log.Printf("error response %d: %s", status, string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs the body of every error response. Debug only;
// install it before the gzip middleware or the body is compressed here.
func ErrorLogMiddleware(c *gin.Context) {
	c.Writer = &errorBodyWriter{c: c, ResponseWriter: c.Writer}
	c.Next()
}
