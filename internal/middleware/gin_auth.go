package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gin adapts a net/http middleware to Gin. Values the middleware puts on
// the request context stay visible to later handlers.
func Gin(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware answered the request itself, stop the Gin chain
		if !called {
			c.Abort()
		}
	}
}

// GinRequireSession is the gate as a Gin handler.
func GinRequireSession(g *Gate) gin.HandlerFunc {
	return Gin(g.RequireSession)
}
