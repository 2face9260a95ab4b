package auth

import (
	"net/http"

	"ingest/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc receives the pre-loaded, authenticated user. Resource-level
// checks stay with the handlers, which go through the access gate.
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that adds session auth + User pre-loading
type Router struct {
	Base *gin.Engine
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc) {
	session := LoadSession(c)
	user := session.User()
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c, &user)
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}
