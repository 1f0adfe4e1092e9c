package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ValidateAPIKey guards the admin surface. Rejects when ADMIN_API_KEY is
// unset so a missing env var can never open the admin routes.
func ValidateAPIKey(c *gin.Context) {
	want := os.Getenv("ADMIN_API_KEY")
	got := c.GetHeader("X-API-KEY")
	if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
		c.Abort()
		return
	}
	c.Next()
}
