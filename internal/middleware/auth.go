package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"unified-calendar/internal/model"
	"unified-calendar/pkg/response"
)

const (
	HeaderUserID      = "X-User-ID"
	HeaderInternalKey = "X-Internal-Key"

	scopeKey = "scope"
)

// Auth trusts the user id forwarded by the gateway and stores it as the
// request Scope.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey != "" && !m.validKey(c.GetHeader(HeaderInternalKey)) {
			m.l.Warnf(c.Request.Context(), "middleware.Auth: bad internal key from %s", c.ClientIP())
			response.Unauthorized(c)
			return
		}

		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			response.Unauthorized(c)
			return
		}

		c.Set(scopeKey, model.Scope{UserID: userID})
		c.Next()
	}
}

// InternalAuth guards routes used only by trusted collaborators.
func (m Middleware) InternalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey == "" || !m.validKey(c.GetHeader(HeaderInternalKey)) {
			m.l.Warnf(c.Request.Context(), "middleware.InternalAuth: rejected request from %s", c.ClientIP())
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func (m Middleware) validKey(key string) bool {
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.internalKey)) == 1
}

// GetScope returns the Scope stored by Auth.
func GetScope(c *gin.Context) (model.Scope, bool) {
	v, ok := c.Get(scopeKey)
	if !ok {
		return model.Scope{}, false
	}
	sc, ok := v.(model.Scope)
	return sc, ok && sc.UserID != ""
}
