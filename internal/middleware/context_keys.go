package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ownerIDKey stores the authenticated principal. Every ledger row is scoped by it.
const ownerIDKey = contextKey("ownerID")

// GetOwnerIDFromContext retrieves the authenticated owner ID from the Gin context.
// It returns the owner ID and a boolean indicating if it was found.
func GetOwnerIDFromContext(c *gin.Context) (string, bool) {
	if ownerIDVal, exists := c.Get(string(ownerIDKey)); exists {
		ownerID, ok := ownerIDVal.(string)
		return ownerID, ok && ownerID != ""
	}
	return OwnerIDFromCtx(c.Request.Context())
}

// OwnerIDFromCtx retrieves the authenticated owner ID from a standard context.
func OwnerIDFromCtx(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	return ownerID, ok && ownerID != ""
}
