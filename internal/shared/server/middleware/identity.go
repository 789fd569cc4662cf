package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/shared/server/respond"
)

const (
	profileIDKey  = "profileId"
	storageKeyKey = "storageKey"
)

// Identity reads the caller identity forwarded by the upstream auth layer.
// The profile id is required on every route; the storage key may be absent
// for profiles that have not configured storage yet.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		profileID := strings.TrimSpace(c.GetHeader("X-Profile-Id"))
		if profileID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}
		c.Set(profileIDKey, profileID)

		if storageKey := strings.TrimSpace(c.GetHeader("X-Storage-Key")); storageKey != "" {
			c.Set(storageKeyKey, storageKey)
		}
		c.Next()
	}
}

// ProfileIDFromContext fetches the profile id stored by Identity middleware.
func ProfileIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(profileIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// StorageKeyFromContext fetches the storage key stored by Identity middleware.
func StorageKeyFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(storageKeyKey)
	if key, ok := val.(string); ok {
		return key
	}
	return ""
}
