package mcp

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	headerAPIKey     = "x-api-key"
	queryAPIKey      = "api_key"
	contextKeyClient = "client"
)

// accessKey reads the caller's key from the x-api-key header, a bearer token
// or the api_key query parameter, in that order.
func accessKey(r *http.Request) string {
	if key := r.Header.Get(headerAPIKey); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return r.URL.Query().Get(queryAPIKey)
}

// AuthRequired rejects requests not carrying key. An empty key disables the
// check.
func AuthRequired(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		given := accessKey(c.Request)
		if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// rate limit bucket, never the key itself
		sum := sha256.Sum256([]byte(given))
		c.Set(contextKeyClient, "key:"+hex.EncodeToString(sum[:8]))
		c.Next()
	}
}
