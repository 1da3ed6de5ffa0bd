package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roob1e/tabularium/pkg/response"
)

// Context keys written by middleware.JWTAuth
const (
	ctxUserID   = "user_id"
	ctxTokenJTI = "token_jti"
	ctxTokenExp = "token_exp"
)

// MustGetUserID extracts user_id set by the JWT middleware.
// On failure it writes a 401 and returns false; the caller should return.
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "unauthenticated")
		return 0, false
	}
	return id, true
}

// tokenMeta jti and expiry of the presented access token; zero values when absent
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ctxTokenJTI)
	exp, _ := c.Get(ctxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}

// parseID reads the :id path parameter, writing a 400 when it is not a positive integer
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
