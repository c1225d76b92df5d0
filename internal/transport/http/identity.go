package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/shopora/shop-api/internal/shared/errors"
)

// UserIDHeader carries the authenticated user identity. Authentication itself
// sits at the edge; the API trusts the header set by the gateway.
const UserIDHeader = "X-User-ID"

const userIDContextKey = "shop.userID"

// RequireUser rejects requests without a parseable user identity header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("a valid "+UserIDHeader+" header is required"))
			c.Abort()
			return
		}
		c.Set(userIDContextKey, id)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDContextKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
